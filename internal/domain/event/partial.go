package event

import "fmt"

// Partial keeps the raw fields of an event carrying a partial entity.
type Partial struct {
	fields map[string]interface{}
}

func (p *Partial) setFields(fields map[string]interface{}) {
	p.fields = fields
}

// Fields returns the field names present in the payload.
func (p Partial) Fields() []string {
	ret := make([]string, 0, len(p.fields))

	for name := range p.fields {
		ret = append(ret, name)
	}

	return ret
}

// MergeInto shallow-merges the payload fields into target, a pointer to an entity.
// Fields absent from the payload are left untouched.
func (p Partial) MergeInto(target interface{}) error {
	if len(p.fields) == 0 {
		return nil
	}

	decoder, err := newDecoder(target)
	if err != nil {
		return err
	}

	err = decoder.Decode(p.fields)
	if err != nil {
		return fmt.Errorf("failed to merge fields: %w", err)
	}

	return nil
}

type partial interface {
	setFields(map[string]interface{})
}
