package gtm

import (
	"fmt"
	"strings"

	"github.com/ignite/floody/internal/floody"
)

// BuildTag renders the tag-manager payload of one approved activity. The
// tag name embeds the approval request id so pushes stay traceable in the
// container.
func BuildTag(activity FloodlightActivity, requestID int64) Tag {
	tag := Tag{
		Name:     fmt.Sprintf("%s_floodyPush_%d", activity.Name, requestID),
		LiveOnly: false,
	}

	parameters := []Parameter{
		{Type: "template", Key: "advertiserId", Value: fmt.Sprintf("%d", activity.AdvertiserID)},
		{Type: "template", Key: "groupTag", Value: activity.GroupTagString},
		{Type: "template", Key: "activityTag", Value: activity.TagString},
	}

	if len(activity.CustomVariables) > 0 {
		list := make([]Parameter, 0, len(activity.CustomVariables))
		for _, variable := range activity.CustomVariables {
			list = append(list, customVariableParameter(variable))
		}
		parameters = append(parameters, Parameter{Type: "list", Key: "customVariable", List: list})
	}

	method := string(activity.CountingMethod)
	switch {
	case strings.HasPrefix(method, "COUNTER_"):
		tag.Type = "flc"
		ordinalType := strings.TrimPrefix(method, "COUNTER_")
		parameters = append(parameters, Parameter{Type: "template", Key: "ordinalType", Value: ordinalType})
		if activity.CountingMethod == floody.CounterSessions {
			parameters = append(parameters, Parameter{Type: "template", Key: "sessionId", Value: "session_information"})
		}
	default:
		tag.Type = "fls"
		countingMethod := strings.TrimPrefix(method, "SALES_")
		if countingMethod == "ITEMS_SOLD" {
			countingMethod = "ITEM_SOLD"
		}
		parameters = append(parameters,
			Parameter{Type: "template", Key: "countingMethod", Value: countingMethod},
			Parameter{Type: "template", Key: "revenue", Value: "transaction_value"},
			Parameter{Type: "template", Key: "orderId", Value: "transaction_order_id"},
		)
		if countingMethod == "ITEM_SOLD" {
			parameters = append(parameters, Parameter{Type: "template", Key: "quantity", Value: "transaction_quantity"})
		}
	}

	tag.Parameters = parameters
	return tag
}

// customVariableParameter maps a sheet variable code ("U4") to the
// tag-manager key/value pair ("u4" / "u4_value").
func customVariableParameter(variable string) Parameter {
	number := strings.TrimLeft(variable, "uU")
	return Parameter{
		Type: "map",
		Map: []Parameter{
			{Type: "template", Key: "key", Value: "u" + number},
			{Type: "template", Key: "value", Value: "u" + number + "_value"},
		},
	}
}
