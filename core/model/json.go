package model

import (
	"encoding/json"
	"fmt"
)

// ResourceKind and Priority travel as strings on the wire.

func (k ResourceKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ResourceKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("resource kind: %w", err)
	}
	kind, err := ParseResourceKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	prio, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = prio
	return nil
}
