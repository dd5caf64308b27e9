package store

// ProvinceCount is one row of the SQL province aggregate.
type ProvinceCount struct {
	Province string
	Total    int64
}
