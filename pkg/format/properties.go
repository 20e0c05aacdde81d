package format

import (
	"strings"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// nullValue is the quoted sentinel used for absent values and empty lists.
const nullValue = "'" + Null + "'"

// RenderUserProperties renders a user property list, e.g.
// "User Properties: [Name: 'a', Value: 'b'], [Name: 'c', Value: 'd']".
// An empty or nil list renders as "User Properties: 'null'".
func RenderUserProperties(props []packet.UserProperty) string {
	return "User Properties: " + userPropertiesValue(props)
}

// RenderReasonCodes renders a reason code list with names resolved for kind, e.g.
// "Suback Reason Codes: { [Reason Code: 'GRANTED_QOS_1'] }".
// An empty or nil list renders as "<label>: 'null'".
func RenderReasonCodes(label string, kind packet.Kind, codes []packet.ReasonCode) string {
	return label + ": " + braceList(reasonCodeItems(kind, codes))
}

// RenderBraceList renders items as "<label>: { a, b }".
// An empty or nil list renders as "<label>: 'null'".
func RenderBraceList(label string, items []string) string {
	return label + ": " + braceList(items)
}

func userPropertiesValue(props []packet.UserProperty) string {
	if len(props) == 0 {
		return nullValue
	}
	var b strings.Builder
	for i, p := range props {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("[Name: '")
		b.WriteString(p.Name)
		b.WriteString("', Value: '")
		b.WriteString(p.Value)
		b.WriteString("']")
	}
	return b.String()
}

func reasonCodeItems(kind packet.Kind, codes []packet.ReasonCode) []string {
	items := make([]string, len(codes))
	for i, c := range codes {
		items[i] = "[Reason Code: '" + c.Name(kind) + "']"
	}
	return items
}

func braceList(items []string) string {
	if len(items) == 0 {
		return nullValue
	}
	return "{ " + strings.Join(items, ", ") + " }"
}
