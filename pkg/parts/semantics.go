package parts

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

// RefPlaceholder is replaced by the lower-cased component reference when a
// name template is bound to a component.
const RefPlaceholder = "{ref}"

// Rule translates pin descriptions matching Match into a signal name and an
// I/O standard. Name may use ${n} to refer to capture groups of Match.
type Rule struct {
	Match      string `yaml:"match"`
	Name       string `yaml:"name,omitempty"`
	IOStandard string `yaml:"iostandard,omitempty"`
	Lower      bool   `yaml:"lower,omitempty"` // lower-case the expanded name
	None       bool   `yaml:"none,omitempty"`  // pin needs no constraint

	re *regexp.Regexp
}

// Family is the ordered semantics rule list of one part type.
type Family struct {
	Part    string   `yaml:"part"`
	Aliases []string `yaml:"aliases,omitempty"`
	Kind    string   `yaml:"kind,omitempty"`
	Rules   []Rule   `yaml:"rules"`
}

// Signal is the resolved meaning of one pin.
type Signal struct {
	Name       string // template, may contain RefPlaceholder
	IOStandard string
	None       bool
}

// Bind substitutes the component reference into the name template.
func (s Signal) Bind(ref string) string {
	return strings.ReplaceAll(s.Name, RefPlaceholder, strings.ToLower(ref))
}

// ParseFamilies decodes one or more YAML documents, each holding a family,
// and compiles their rules.
func ParseFamilies(r io.Reader) ([]*Family, error) {
	dec := yaml.NewDecoder(r)
	var out []*Family
	for {
		var f Family
		err := dec.Decode(&f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parts: decode family: %w", err)
		}
		if err := f.compile(); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, nil
}

// ParseFamiliesBytes is ParseFamilies over a byte slice.
func ParseFamiliesBytes(data []byte) ([]*Family, error) {
	return ParseFamilies(bytes.NewReader(data))
}

func (f *Family) compile() error {
	if f.Part == "" {
		return fmt.Errorf("parts: family without part name")
	}
	if len(f.Rules) == 0 {
		return fmt.Errorf("parts: family %s has no rules", f.Part)
	}
	for i := range f.Rules {
		rule := &f.Rules[i]
		re, err := regexp.Compile(rule.Match)
		if err != nil {
			return fmt.Errorf("parts: family %s rule %d: %w", f.Part, i, err)
		}
		rule.re = re
		if rule.None {
			continue
		}
		if rule.Name == "" || rule.IOStandard == "" {
			return fmt.Errorf("parts: family %s rule %d (%s): name and iostandard are required unless none is set",
				f.Part, i, rule.Match)
		}
	}
	return nil
}

// Resolve applies the first rule whose pattern matches description.
func (f *Family) Resolve(description string) (Signal, bool) {
	for _, rule := range f.Rules {
		m := rule.re.FindStringSubmatchIndex(description)
		if m == nil {
			continue
		}
		if rule.None {
			return Signal{None: true}, true
		}
		name := string(rule.re.ExpandString(nil, rule.Name, description, m))
		if rule.Lower {
			name = strings.ToLower(name)
		}
		return Signal{Name: name, IOStandard: rule.IOStandard}, true
	}
	return Signal{}, false
}

func unresolved(part *model.Part, pin model.PinID, desc, reason string) error {
	return &model.UnresolvedPinSemanticsError{
		Part:        part.Name,
		Pin:         pin,
		Description: desc,
		Reason:      reason,
	}
}
