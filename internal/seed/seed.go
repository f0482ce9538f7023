// Package seed holds the reference corpus loaded into a store at
// initialization: threat signatures in match order and domain records.
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"urlinfo/internal/domain"
)

var ErrInvalidCorpus = errors.New("invalid corpus")

// Corpus is the seed content of a store. Signature order is significant: it
// is the tie-break order of the matcher.
type Corpus struct {
	Signatures []domain.ThreatSignature `yaml:"signatures"`
	Domains    []domain.DomainRecord    `yaml:"domains"`
}

// Validate normalizes hostnames and checks enum values and uniqueness.
func (c *Corpus) Validate() error {
	patterns := make(map[string]struct{}, len(c.Signatures))
	for i, s := range c.Signatures {
		if s.Pattern == "" {
			return fmt.Errorf("%w: signature %d has empty pattern", ErrInvalidCorpus, i)
		}
		if !s.PatternClass.Valid() {
			return fmt.Errorf("%w: signature %q has pattern class %q", ErrInvalidCorpus, s.Pattern, s.PatternClass)
		}
		if !s.ThreatCategory.Valid() {
			return fmt.Errorf("%w: signature %q has threat category %q", ErrInvalidCorpus, s.Pattern, s.ThreatCategory)
		}
		if _, dup := patterns[s.Pattern]; dup {
			return fmt.Errorf("%w: duplicate pattern %q", ErrInvalidCorpus, s.Pattern)
		}
		patterns[s.Pattern] = struct{}{}
	}
	hosts := make(map[string]struct{}, len(c.Domains))
	for i := range c.Domains {
		d := &c.Domains[i]
		d.Hostname = domain.NormalizeHostname(d.Hostname)
		if d.Hostname == "" || strings.ContainsAny(d.Hostname, ":/") {
			return fmt.Errorf("%w: domain %d has hostname %q", ErrInvalidCorpus, i, d.Hostname)
		}
		if !d.Status.Valid() {
			return fmt.Errorf("%w: domain %q has status %q", ErrInvalidCorpus, d.Hostname, d.Status)
		}
		if _, dup := hosts[d.Hostname]; dup {
			return fmt.Errorf("%w: duplicate hostname %q", ErrInvalidCorpus, d.Hostname)
		}
		hosts[d.Hostname] = struct{}{}
	}
	return nil
}

// LoadFile reads a YAML corpus. An empty path yields Default().
func LoadFile(path string) (Corpus, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Corpus, error) {
	var c Corpus
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Corpus{}, fmt.Errorf("%w: %v", ErrInvalidCorpus, err)
	}
	now := time.Now().UTC()
	for i := range c.Domains {
		if c.Domains[i].LastUpdated.IsZero() {
			c.Domains[i].LastUpdated = now
		}
	}
	if err := c.Validate(); err != nil {
		return Corpus{}, err
	}
	return c, nil
}
