package domain

import (
	"fmt"
	"strings"
)

// ContainerResult is the outcome of evaluating one container.
type ContainerResult struct {
	Container ContainerDescriptor
	Changed   bool
}

// String renders the result as "<changed>, <descriptor>", with the flag
// spelled True or False so existing pipeline scrapers keep matching.
// Example: `True, {"name":"api","is_changed_regexp":"^src/api/"}`
func (r ContainerResult) String() string {
	return fmt.Sprintf("%s, %s", changedToken(r.Changed), r.Container)
}

func changedToken(changed bool) string {
	if changed {
		return "True"
	}
	return "False"
}

// Evaluate tests every container against files, in configuration order.
// The first container with an invalid pattern aborts the evaluation; no
// partial results are returned.
func Evaluate(cfg DeploymentConfig, files []string) ([]ContainerResult, error) {
	results := make([]ContainerResult, 0, len(cfg.Containers))
	for _, c := range cfg.Containers {
		changed, err := c.IsChanged(files)
		if err != nil {
			return nil, err
		}
		results = append(results, ContainerResult{Container: c, Changed: changed})
	}
	return results, nil
}

// CountChanged returns how many results are marked changed.
func CountChanged(results []ContainerResult) int {
	n := 0
	for _, r := range results {
		if r.Changed {
			n++
		}
	}
	return n
}

// SplitLines splits version control output into one path per line,
// preserving order. A single trailing line terminator is dropped, so empty
// output yields an empty list.
func SplitLines(output string) []string {
	if output == "" {
		return []string{}
	}
	output = strings.TrimSuffix(output, "\n")
	lines := strings.Split(output, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
