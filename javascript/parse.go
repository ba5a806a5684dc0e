package javascript

import (
	"bufio"
	"strings"
)

// getFunctionName returns the name of the first `function name(...)` declaration. Anonymous functions are skipped.
func getFunctionName(script string) string {
	scanner := bufio.NewScanner(strings.NewReader(script))
	scanner.Split(bufio.ScanWords)
	afterKeyword := false
	for scanner.Scan() {
		word := scanner.Text()
		if word == "function" {
			afterKeyword = true
			continue
		}
		if afterKeyword {
			afterKeyword = false
			name, _, _ := strings.Cut(word, "(")
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	return ""
}
