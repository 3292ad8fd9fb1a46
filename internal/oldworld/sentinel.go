package oldworld

// IDNone is the in-document marker for "no reference".
const IDNone = -1

// NormalizeID maps the IDNone sentinel (and any negative ID) to absent.
func NormalizeID(id int) *int {
	if id < 0 {
		return nil
	}
	v := id
	return &v
}

