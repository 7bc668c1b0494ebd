package card

// Catalog is the selectable content: creature records and background names.
// Backgrounds are addressed by 0-based index; their URLs come from a pattern.
type Catalog struct {
	Records     []Record
	Backgrounds []string
}

// Record returns the record at i.
func (c Catalog) Record(i int) (Record, bool) {
	if i < 0 || i >= len(c.Records) {
		return Record{}, false
	}
	return c.Records[i], true
}

// Empty reports whether there is nothing to select.
func (c Catalog) Empty() bool {
	return len(c.Records) == 0
}
