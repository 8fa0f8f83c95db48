// vformat.go: deferred message formatting
//
// Grounded on spec §4.6 ("vformat on demand") and the literal end-to-end
// example's "{}"-style placeholders (original_source uses fmt::format
// under the hood). VFormat substitutes each "{}" token in order with
// the string rendering of the corresponding decoded Arg; this is the
// one step of the pipeline that actually costs a string-building pass,
// and it only runs on the backend, never on a producer's hot path.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import "strings"

// VFormat renders format with each "{}" placeholder replaced, in order,
// by args[i].String(). A format with more placeholders than args leaves
// the remaining "{}" tokens untouched; extra args are ignored.
func VFormat(format string, args []Arg) string {
	if len(args) == 0 || !strings.Contains(format, "{}") {
		return format
	}

	var b strings.Builder
	b.Grow(len(format))

	argIdx := 0
	rest := format
	for {
		idx := strings.Index(rest, "{}")
		if idx < 0 || argIdx >= len(args) {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:idx])
		b.WriteString(args[argIdx].String())
		argIdx++
		rest = rest[idx+2:]
	}
	return b.String()
}
