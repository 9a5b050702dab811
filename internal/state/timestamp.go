package state

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syntho/stackdeploy/internal/deployment"
)

// timestampLayouts are tried in order when reading started_at and finished_at.
// Fractional seconds are accepted by all of them. Layouts without a zone are
// the naive UTC timestamps written by earlier versions of the tool.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseTimestamp reads a persisted timestamp. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// recordDocument is the on-disk shape of a Record before timestamps are parsed.
type recordDocument struct {
	ID          string            `yaml:"id"`
	Status      deployment.Status `yaml:"status"`
	Version     string            `yaml:"version"`
	StartedAt   yaml.Node         `yaml:"started_at"`
	FinishedAt  yaml.Node         `yaml:"finished_at"`
	ClusterName *string           `yaml:"cluster_name"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var doc recordDocument
	if err := value.Decode(&doc); err != nil {
		return err
	}

	started, err := timestampNode(&doc.StartedAt)
	if err != nil {
		return fmt.Errorf("deployment %s: started_at: %w", doc.ID, err)
	}
	finished, err := timestampNode(&doc.FinishedAt)
	if err != nil {
		return fmt.Errorf("deployment %s: finished_at: %w", doc.ID, err)
	}

	*r = Record{
		ID:          doc.ID,
		Status:      doc.Status,
		Version:     doc.Version,
		FinishedAt:  finished,
		ClusterName: doc.ClusterName,
	}
	if started != nil {
		r.StartedAt = *started
	}
	return nil
}

// timestampNode parses a scalar timestamp node. Absent, null and empty nodes yield nil.
func timestampNode(n *yaml.Node) (*time.Time, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" || (n.Kind == yaml.ScalarNode && strings.TrimSpace(n.Value) == "") {
		return nil, nil
	}
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("expected a scalar, got %s", n.ShortTag())
	}
	t, err := ParseTimestamp(n.Value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
