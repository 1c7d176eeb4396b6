// Copyright 2025 Galley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/flosch/pongo2/v6"
)

const (
	// DefaultExcerptWords is the word count used by the excerpt filter when
	// no parameter is given.
	DefaultExcerptWords = 40

	// wordsPerMinute is the reading speed assumed by the readingtime filter.
	wordsPerMinute = 200

	defaultDateLayout = "January 2, 2006"
)

var (
	registerOnce sync.Once
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// registerFilters installs Galley's filters into pongo2's process-wide filter
// table. pongo2 rejects duplicate registrations, so this must run exactly once
// no matter how many engines exist.
func registerFilters() {
	registerOnce.Do(func() {
		must(pongo2.RegisterFilter("excerpt", filterExcerpt))
		must(pongo2.RegisterFilter("readingtime", filterReadingTime))
		must(pongo2.RegisterFilter("humandate", filterHumanDate))
		must(pongo2.RegisterFilter("initials", filterInitials))
	})
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Excerpt strips markup from s and truncates it to limit words, appending an
// ellipsis when content was cut.
func Excerpt(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	text := tagPattern.ReplaceAllString(s, " ")
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + "…"
}

// filterExcerpt exposes Excerpt to templates. The parameter overrides the
// default word count.
func filterExcerpt(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	limit := DefaultExcerptWords
	if param != nil && !param.IsNil() {
		limit = param.Integer()
	}
	return pongo2.AsValue(Excerpt(in.String(), limit)), nil
}

// filterReadingTime estimates reading time in whole minutes, with a minimum
// of one minute for non-empty input.
func filterReadingTime(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	words := len(strings.Fields(tagPattern.ReplaceAllString(in.String(), " ")))
	if words == 0 {
		return pongo2.AsValue(0), nil
	}

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return pongo2.AsValue(minutes), nil
}

// filterHumanDate formats a time.Time for display. The parameter overrides
// the layout (a Go reference layout string).
func filterHumanDate(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	layout := defaultDateLayout
	if param != nil && param.IsString() {
		layout = param.String()
	}

	var t time.Time
	switch v := in.Interface().(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v != nil {
			t = *v
		}
	default:
		return nil, &pongo2.Error{
			Sender:    "filter:humandate",
			OrigError: fmt.Errorf("input must be a time.Time, got %T", in.Interface()),
		}
	}

	if t.IsZero() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(t.Format(layout)), nil
}

// filterInitials reduces a name to at most two uppercase initials, for
// avatar placeholders.
func filterInitials(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	fields := strings.Fields(in.String())
	if len(fields) > 2 {
		fields = []string{fields[0], fields[len(fields)-1]}
	}

	var b strings.Builder
	for _, f := range fields {
		r := []rune(f)
		b.WriteRune(unicode.ToUpper(r[0]))
	}
	return pongo2.AsValue(b.String()), nil
}
