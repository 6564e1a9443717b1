// Package rle implements the run-length encoding used for compressed
// collection files.
//
// Single-pass encoding replaces runs of one character by a count and the
// character:
//
//	####$$####$$  ->  4#2$4#2$
//
// Multi-pass encoding also factors repeated groups using parentheses:
//
//	####$$####$$  ->  2(4#2$)
//
// Decompress understands both forms, including nested groups.
package rle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxExpanded caps the length of decompressed output.
const MaxExpanded = 1 << 20

// ErrSyntax is returned for malformed compressed input.
var ErrSyntax = errors.New("rle: syntax error")

// Compress performs one pass of run-length encoding.
func Compress(s string) string {
	var sb strings.Builder
	for pos := 0; pos < len(s); {
		end := pos + 1
		for end < len(s) && s[end] == s[pos] {
			end++
		}
		if n := end - pos; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
		sb.WriteByte(s[pos])
		pos = end
	}
	return sb.String()
}

// CompressMultiPass factors s as far as possible. Factoring is tried from the
// smallest group size up and from the largest down; the shorter result wins.
// Input containing digits or parentheses is returned single-pass encoded.
func CompressMultiPass(s string) string {
	if strings.ContainsAny(s, "0123456789()") {
		return Compress(s)
	}

	ascending := s
	for size := 1; size <= len(s)/2; size++ {
		ascending = factor(size, ascending)
	}
	descending := s
	for size := len(s) / 2; size > 0; size-- {
		descending = factor(size, descending)
	}

	best := ascending
	if len(descending) < len(best) {
		best = descending
	}

	// Factoring an already factored string can in rare cases produce
	// ambiguous counts; never hand out something that does not decode back.
	if out, err := Decompress(best); err != nil || out != s {
		return Compress(s)
	}
	return best
}

// Best returns the shorter of the single-pass and multi-pass encodings.
func Best(s string) string {
	single := Compress(s)
	multi := CompressMultiPass(s)
	if len(multi) < len(single) {
		return multi
	}
	return single
}

// factor replaces consecutive repetitions of size-long chunks by a count.
func factor(size int, in string) string {
	var sb strings.Builder
	pos := 0
	for pos < len(in) {
		end := min(pos+size, len(in))
		chunk := in[pos:end]

		next := end
		for next+size <= len(in) && in[next:next+size] == chunk {
			next += size
		}

		reps := (next - pos) / size
		if reps > 1 && len(chunk) == size && factorable(chunk, in, pos) {
			sb.WriteString(strconv.Itoa(reps))
			if size == 1 {
				sb.WriteString(chunk)
			} else {
				sb.WriteByte('(')
				sb.WriteString(chunk)
				sb.WriteByte(')')
			}
			pos = next
			continue
		}

		sb.WriteByte(in[pos])
		pos++
	}
	return sb.String()
}

// factorable reports whether chunk, found at pos in in, can be wrapped in a
// count without changing the meaning of the surrounding encoding.
func factorable(chunk, in string, pos int) bool {
	if isDigit(chunk[len(chunk)-1]) {
		return false
	}
	if pos > 0 && isDigit(in[pos-1]) {
		return false
	}
	if len(chunk) == 1 && (chunk[0] == '(' || chunk[0] == ')') {
		return false
	}
	depth := 0
	for i := 0; i < len(chunk); i++ {
		switch chunk[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// Decompress expands single-pass and multi-pass encodings.
func Decompress(s string) (string, error) {
	d := decoder{in: s}
	out, err := d.sequence(0)
	if err != nil {
		return "", err
	}
	if d.pos != len(d.in) {
		return "", fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, d.in[d.pos], d.pos)
	}
	return out, nil
}

type decoder struct {
	in  string
	pos int
}

// sequence decodes elements until the end of input or a closing parenthesis.
func (d *decoder) sequence(depth int) (string, error) {
	var sb strings.Builder
	for d.pos < len(d.in) {
		if d.in[d.pos] == ')' {
			if depth == 0 {
				return "", fmt.Errorf("%w: unbalanced ')' at offset %d", ErrSyntax, d.pos)
			}
			return sb.String(), nil
		}

		count := 1
		start := d.pos
		for d.pos < len(d.in) && isDigit(d.in[d.pos]) {
			d.pos++
		}
		if d.pos > start {
			n, err := strconv.Atoi(d.in[start:d.pos])
			if err != nil {
				return "", fmt.Errorf("%w: bad count %q", ErrSyntax, d.in[start:d.pos])
			}
			count = n
		}
		if d.pos >= len(d.in) {
			return "", fmt.Errorf("%w: count without element at offset %d", ErrSyntax, start)
		}

		var elem string
		switch d.in[d.pos] {
		case '(':
			open := d.pos
			d.pos++
			inner, err := d.sequence(depth + 1)
			if err != nil {
				return "", err
			}
			if d.pos >= len(d.in) || d.in[d.pos] != ')' {
				return "", fmt.Errorf("%w: unterminated group at offset %d", ErrSyntax, open)
			}
			d.pos++
			elem = inner
		case ')':
			return "", fmt.Errorf("%w: count without element at offset %d", ErrSyntax, start)
		default:
			elem = d.in[d.pos : d.pos+1]
			d.pos++
		}

		if elem == "" {
			return "", fmt.Errorf("%w: empty group at offset %d", ErrSyntax, start)
		}
		if count > MaxExpanded || count > (MaxExpanded-sb.Len())/len(elem) {
			return "", fmt.Errorf("%w: expansion exceeds %d bytes", ErrSyntax, MaxExpanded)
		}
		for i := 0; i < count; i++ {
			sb.WriteString(elem)
		}
	}
	if depth > 0 {
		return "", fmt.Errorf("%w: unterminated group", ErrSyntax)
	}
	return sb.String(), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
