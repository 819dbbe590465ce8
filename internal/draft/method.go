package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ConsumptionMethod is how the customer will be served.
type ConsumptionMethod string

const (
	MethodUnset ConsumptionMethod = ""
	// DineIn orders are eaten at a table and require a table number.
	DineIn   ConsumptionMethod = "comer"
	Takeaway ConsumptionMethod = "levar"
)

// ErrUnknownMethod is returned when parsing an unsupported consumption method.
var ErrUnknownMethod = errors.New("unknown consumption method")

// ParseMethod accepts the wire values as well as the English aliases.
func ParseMethod(s string) (ConsumptionMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return MethodUnset, nil
	case "comer", "dine-in", "dine_in":
		return DineIn, nil
	case "levar", "takeaway", "takeout":
		return Takeaway, nil
	default:
		return MethodUnset, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// IsValid reports whether m is a concrete method.
func (m ConsumptionMethod) IsValid() bool {
	return m == DineIn || m == Takeaway
}

func (m *ConsumptionMethod) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*m = MethodUnset
		return nil
	}
	parsed, err := ParseMethod(*s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
