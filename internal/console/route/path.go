// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package route

import (
	"path"
	"strings"
	"unicode"
)

var externalSchemes = []string{"http:", "https:", "mailto:", "tel:"}

// IsExternal 是否是外链
func IsExternal(p string) bool {
	for _, s := range externalSchemes {
		if strings.HasPrefix(p, s) {
			return true
		}
	}
	return false
}

// Resolve joins segments right to left until an absolute one is reached,
// the same way POSIX path.resolve does with "/" as working directory.
// The result is always absolute and clean.
func Resolve(segments ...string) string {
	resolved := "/"
	for _, s := range segments {
		if s == "" {
			continue
		}
		if path.IsAbs(s) {
			resolved = s
			continue
		}
		resolved = path.Join(resolved, s)
	}
	return path.Clean(resolved)
}

// ToHump 转驼峰：user-list / user_list -> userList
func ToHump(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	runes := []rune(name)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '-' || r == '_') && i+1 < len(runes) && isWordRune(runes[i+1]) {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// NameFromURL 取 url 最后一段并转驼峰
func NameFromURL(menuURL string) string {
	i := strings.LastIndex(menuURL, "/")
	return ToHump(menuURL[i+1:])
}
