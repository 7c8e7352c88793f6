// internal/model/lead.go
package model

import "strings"

// Lead is a CRM contact as stored in the document database. Besides the id,
// everything lives in Fields so that templates can reference any attribute
// the CRM happens to carry.
type Lead struct {
	ID     string            `bson:"_id" json:"id"`
	Fields map[string]string `bson:"fields" json:"fields"`
}

// phoneAliases is the priority order in which a lead's phone is looked up.
var phoneAliases = []string{"telefono", "phone", "whatsapp"}

// Phone returns the raw phone number from the first non-empty alias field.
func (l *Lead) Phone() string {
	for _, key := range phoneAliases {
		if v := strings.TrimSpace(l.Fields[key]); v != "" {
			return v
		}
	}
	return ""
}

// Name returns the lead's display name, or "" if unset.
func (l *Lead) Name() string {
	return strings.TrimSpace(l.Fields["nombre"])
}

// Attr returns an arbitrary lead attribute, "" when missing.
func (l *Lead) Attr(key string) string {
	if l.Fields == nil {
		return ""
	}
	return l.Fields[key]
}
