package scanning

import "strings"

// Canonical delivery tags recognized on orders. Warehouse staff route
// parcels to couriers based on these.
const (
	DeliveryTagK       = "k"
	DeliveryTagBig     = "big"
	DeliveryTag12Livery = "12livery"
	DeliveryTagFast    = "fast"
	DeliveryTagOscario = "oscario"
	DeliveryTagSand    = "sand"
)

// DeliveryTags lists every canonical delivery tag in a stable order.
var DeliveryTags = []string{
	DeliveryTagK,
	DeliveryTagBig,
	DeliveryTag12Livery,
	DeliveryTagFast,
	DeliveryTagOscario,
	DeliveryTagSand,
}

// deliveryTagVariants maps common misspellings and aliases seen in
// store tags onto their canonical form.
var deliveryTagVariants = map[string]string{
	"sandy":    DeliveryTagSand,
	"12livrey": DeliveryTag12Livery,
}

var canonicalDeliveryTags = func() map[string]struct{} {
	set := make(map[string]struct{}, len(DeliveryTags))
	for _, t := range DeliveryTags {
		set[t] = struct{}{}
	}
	return set
}()

// DetectDeliveryTag extracts the canonical delivery tag from a store's
// free-text tag field. Tags are matched as whole tokens (comma or
// whitespace separated) so "snack" never matches "sand". Split tokens
// such as "12 livery" are joined and retried. Returns "" when no
// delivery tag is present.
func DetectDeliveryTag(tags string) string {
	tokens := strings.FieldsFunc(strings.ToLower(tags), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for i, tok := range tokens {
		if t := matchDeliveryToken(tok); t != "" {
			return t
		}
		if i+1 < len(tokens) {
			if t := matchDeliveryToken(tok + tokens[i+1]); t != "" {
				return t
			}
		}
	}
	return ""
}

func matchDeliveryToken(tok string) string {
	if _, ok := canonicalDeliveryTags[tok]; ok {
		return tok
	}
	if canonical, ok := deliveryTagVariants[tok]; ok {
		return canonical
	}
	return ""
}
