package types

import "encoding/json"

// Optional distinguishes the three states of a JSON field in a partial
// update: absent, explicit null, and present with a value. An absent field
// leaves the attribute unchanged; null clears it.
type Optional[T any] struct {
	Set   bool // the field appeared in the request body
	Valid bool // the field held a non-null value
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}

	o.Valid = true
	return nil
}
