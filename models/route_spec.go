package models

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// routeNameKeys are the record fields that may carry a stop name, checked in
// order. The first key present decides the entry even when its value is
// unusable.
var routeNameKeys = []string{"name", "stop_name", "stopName", "stop"}

// RouteSpec holds a bus route extracted from whichever shape the catalog
// stored it in: a single delimited string, a list of strings, a list of
// records, or nothing at all. Decoding never fails; unrecognized shapes
// degrade to an empty route and leave the bus to the endpoint fallback.
type RouteSpec struct {
	names []string
}

// RouteFromStops builds a route from an explicit ordered stop list.
func RouteFromStops(stops ...string) RouteSpec {
	names := make([]string, 0, len(stops))
	for _, s := range stops {
		if s != "" {
			names = append(names, s)
		}
	}
	return RouteSpec{names: names}
}

// RouteFromLine builds a route by splitting a single delimited string on
// runs of the separators seen in catalog data entry.
func RouteFromLine(line string) RouteSpec {
	return RouteSpec{names: strings.FieldsFunc(line, isRouteSeparator)}
}

func isRouteSeparator(r rune) bool {
	switch r {
	case '-', '–', '→', '>', ',', '|', ' ':
		return true
	}
	return false
}

// Names returns the extracted stop names in route order.
func (r RouteSpec) Names() []string {
	return r.names
}

// MarshalJSON renders the route as the extracted name list.
func (r RouteSpec) MarshalJSON() ([]byte, error) {
	if len(r.names) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(r.names)
}

// UnmarshalJSON accepts a delimited string, an array of strings and/or
// records, or null.
func (r *RouteSpec) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*r = RouteFromLine(line)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		names := make([]string, 0, len(items))
		for _, item := range items {
			if name := nameFromJSONEntry(item); name != "" {
				names = append(names, name)
			}
		}
		*r = RouteSpec{names: names}
		return nil
	}

	*r = RouteSpec{}
	return nil
}

func nameFromJSONEntry(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal(item, &record); err != nil {
		return ""
	}
	for _, key := range routeNameKeys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return ""
		}
		return name
	}
	return ""
}

// MarshalBSONValue stores the route in its canonical form, an array of stop
// names.
func (r RouteSpec) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(r.names)
}

// UnmarshalBSONValue accepts the stored shapes: a delimited string, an array
// of strings and/or documents, or null.
func (r *RouteSpec) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.String:
		*r = RouteFromLine(raw.StringValue())
	case bsontype.Array:
		arr, ok := raw.ArrayOK()
		if !ok {
			*r = RouteSpec{}
			return nil
		}
		values, err := arr.Values()
		if err != nil {
			*r = RouteSpec{}
			return nil
		}
		names := make([]string, 0, len(values))
		for _, v := range values {
			if name := nameFromBSONEntry(v); name != "" {
				names = append(names, name)
			}
		}
		*r = RouteSpec{names: names}
	default:
		*r = RouteSpec{}
	}
	return nil
}

func nameFromBSONEntry(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.EmbeddedDocument:
		doc, ok := v.DocumentOK()
		if !ok {
			return ""
		}
		for _, key := range routeNameKeys {
			field, err := doc.LookupErr(key)
			if err != nil {
				continue
			}
			name, _ := field.StringValueOK()
			return name
		}
	}
	return ""
}
