package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// ExtractJSON pulls the JSON object out of a model response. Models often
// wrap their output in a markdown code fence; try the ```json fence first,
// then any fence, then the whole response. Failing all three is a hard
// failure, never a silent default.
func ExtractJSON(response string) (string, error) {
	candidates := make([]string, 0, 3)
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := fencedAny.FindStringSubmatch(response); m != nil {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, response)

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if json.Valid([]byte(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("response contains no parseable JSON")
}
