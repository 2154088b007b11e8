package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/nathantilsley/changed-containers/api"
)

// ContainerDescriptor is one entry of the deployment configuration: a
// deployable container and the path pattern that marks it as changed.
type ContainerDescriptor struct {
	Name            string // optional label, empty when the entry has no string "name"
	IsChangedRegexp string
	raw             []byte // compact JSON of the whole entry, original key order
}

// NewContainerDescriptor parses a single container entry. The entry must be a
// JSON object with a string is_changed_regexp field; every other field is
// kept verbatim for String.
func NewContainerDescriptor(raw json.RawMessage) (ContainerDescriptor, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ContainerDescriptor{}, fmt.Errorf("container entry must be an object: %w", err)
	}
	if fields == nil {
		return ContainerDescriptor{}, fmt.Errorf("container entry must be an object, got %s", raw)
	}

	patternRaw, ok := fields[api.FieldIsChangedRegexp]
	if !ok {
		return ContainerDescriptor{}, fmt.Errorf("%w in %s", ErrMissingPattern, raw)
	}
	var pattern string
	if err := json.Unmarshal(patternRaw, &pattern); err != nil {
		return ContainerDescriptor{}, fmt.Errorf("%s must be a string in %s: %w", api.FieldIsChangedRegexp, raw, err)
	}

	var name string
	if nameRaw, ok := fields[api.FieldName]; ok {
		// Non-string names are still echoed through String.
		_ = json.Unmarshal(nameRaw, &name)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ContainerDescriptor{}, fmt.Errorf("compacting container entry: %w", err)
	}

	return ContainerDescriptor{
		Name:            name,
		IsChangedRegexp: pattern,
		raw:             buf.Bytes(),
	}, nil
}

// String returns the entry as compact JSON with its fields in configuration order.
func (c ContainerDescriptor) String() string {
	if len(c.raw) == 0 {
		b, _ := json.Marshal(map[string]string{
			api.FieldName:            c.Name,
			api.FieldIsChangedRegexp: c.IsChangedRegexp,
		})
		return string(b)
	}
	return string(c.raw)
}

// Label identifies the container in errors and structured log attributes.
func (c ContainerDescriptor) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.String()
}

// CompilePattern compiles pattern so that it must match at the start of a
// path but need not consume all of it.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	// Validate on its own first: wrapping alone would accept inputs such as
	// "a)|(b" that are unbalanced by themselves.
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	return regexp.Compile(`\A(?:` + pattern + `)`)
}

// IsChanged reports whether any of files matches the container's pattern.
func (c ContainerDescriptor) IsChanged(files []string) (bool, error) {
	re, err := CompilePattern(c.IsChangedRegexp)
	if err != nil {
		return false, &PatternError{Container: c, Err: err}
	}
	return matchesAny(re, files), nil
}

func matchesAny(re *regexp.Regexp, files []string) bool {
	for _, f := range files {
		if re.MatchString(f) {
			return true
		}
	}
	return false
}

// DeploymentConfig is the ordered set of containers loaded for one run.
type DeploymentConfig struct {
	Containers []ContainerDescriptor
}

// NewDeploymentConfig parses every raw container entry, keeping their order.
func NewDeploymentConfig(entries []json.RawMessage) (DeploymentConfig, error) {
	containers := make([]ContainerDescriptor, 0, len(entries))
	for i, entry := range entries {
		c, err := NewContainerDescriptor(entry)
		if err != nil {
			return DeploymentConfig{}, fmt.Errorf("containers[%d]: %w", i, err)
		}
		containers = append(containers, c)
	}
	return DeploymentConfig{Containers: containers}, nil
}
