package extract

import (
	"github.com/perankh/perankh/internal/savexml"
)

// Tribes extracts every <Tribe> element under <Root>. Tribes are keyed by
// string constants like TRIBE_REBELS rather than numeric IDs.
func Tribes(doc *savexml.Document) ([]TribeRow, error) {
	var tribes []TribeRow

	for _, node := range doc.Root().Children("Tribe") {
		id, err := node.ReqAttr("ID")
		if err != nil {
			return nil, err
		}

		row := TribeRow{
			TribeID:              id,
			LeaderCharacterXMLID: node.OptChildIntPtr("LeaderID"),
			AlliedPlayerXMLID:    refChild(node, "AlliedPlayer"),
			Religion:             node.OptChildString("Religion"),
		}
		tribes = append(tribes, row)
	}

	return tribes, nil
}
