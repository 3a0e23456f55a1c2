package types

// Object is an anonymous record with ordered, dynamically named properties.
type Object struct {
	row Row
}

// NewObject creates an object from a row's named entries.
func NewObject(r *Row) *Object {
	o := &Object{}
	if r == nil {
		return o
	}
	for i, k := range r.keys {
		if k.named {
			o.row.Set(k, r.vals[i])
		}
	}
	return o
}

// Get returns a property value.
func (o *Object) Get(prop string) (any, bool) {
	return o.row.Get(prop)
}

// Set assigns a property, adding it if absent.
func (o *Object) Set(prop string, v any) {
	o.row.Set(Name(prop), v)
}

// Props returns the property names in order.
func (o *Object) Props() []string {
	out := make([]string, 0, len(o.row.keys))
	for _, k := range o.row.keys {
		out = append(out, k.name)
	}
	return out
}

// Map returns the properties as a map.
func (o *Object) Map() map[string]any {
	return o.row.Map()
}

// MarshalJSON encodes the object in property order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return marshalOrdered(o.row.keys, o.row.vals)
}
