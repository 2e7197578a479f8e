package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted run against a catalog file.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Seed is written to the catalog file before the first load.
	// If nil, the file does not exist when the store opens.
	Seed *string `yaml:"seed,omitempty"`

	// Load is the expected status of the first load, if set.
	Load string `yaml:"load,omitempty"`

	// Steps run in order against the store.
	Steps []Step `yaml:"steps"`

	// Final is the expected catalog after the last step, in order.
	// If nil, the final catalog is not checked.
	Final []BookRecord `yaml:"final,omitempty"`
}

// Step is a single catalog operation.
type Step struct {
	Op     string  `yaml:"op"`
	Title  string  `yaml:"title,omitempty"`
	Author string  `yaml:"author,omitempty"`
	ISBN   string  `yaml:"isbn,omitempty"`
	Query  string  `yaml:"query,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds the checked outcome of a step. Which field applies
// depends on the operation.
type Expect struct {
	OK     *bool  `yaml:"ok,omitempty"`     // add, issue, return, save
	Found  *bool  `yaml:"found,omitempty"`  // search_isbn
	Count  *int   `yaml:"count,omitempty"`  // search_title, list
	Status string `yaml:"status,omitempty"` // reload
}

// BookRecord is an expected book in a scenario's final catalog.
type BookRecord struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	ISBN   string `yaml:"isbn"`
	Issued bool   `yaml:"issued"`
}

// Operation names.
const (
	OpAdd         = "add"
	OpIssue       = "issue"
	OpReturn      = "return"
	OpSearchTitle = "search_title"
	OpSearchISBN  = "search_isbn"
	OpList        = "list"
	OpSave        = "save"
	OpReload      = "reload"
)

var loadStatuses = map[string]bool{"ok": true, "created": true, "repaired": true, "reset": true}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and that each expect clause
// fits its operation.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Load != "" && !loadStatuses[s.Load] {
		return fmt.Errorf("unknown load status %q", s.Load)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	var allowed string
	switch step.Op {
	case OpAdd:
		allowed = "ok"
		if step.ISBN == "" {
			return fmt.Errorf("isbn is required for %s", step.Op)
		}
	case OpIssue, OpReturn:
		allowed = "ok"
		if step.ISBN == "" {
			return fmt.Errorf("isbn is required for %s", step.Op)
		}
	case OpSearchISBN:
		allowed = "found"
		if step.ISBN == "" {
			return fmt.Errorf("isbn is required for %s", step.Op)
		}
	case OpSearchTitle, OpList:
		allowed = "count"
	case OpSave:
		allowed = "ok"
	case OpReload:
		allowed = "status"
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	e := step.Expect
	if e == nil {
		return nil
	}
	set := map[string]bool{
		"ok":     e.OK != nil,
		"found":  e.Found != nil,
		"count":  e.Count != nil,
		"status": e.Status != "",
	}
	for field, present := range set {
		if present && field != allowed {
			return fmt.Errorf("expect.%s does not apply to %s", field, step.Op)
		}
	}
	if e.Status != "" && !loadStatuses[e.Status] {
		return fmt.Errorf("unknown load status %q", e.Status)
	}
	return nil
}
