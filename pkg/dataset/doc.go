// Package dataset binds Arrow records to declared schemas as nominal Go
// types. A caller declares one marker type per dataset kind:
//
//	type Trips struct{}
//
//	func (Trips) Columns() []schema.Column {
//		return []schema.Column{
//			{Name: "id", Type: schema.Int64},
//			{Name: "city", Type: schema.String},
//		}
//	}
//
// DataSet[Trips] is then a distinct static type from DataSet of any other
// marker, even one declaring the same columns, so function signatures carry
// the schema and the compiler rejects a dataset of the wrong kind. The
// record is validated against the declaration once, at construction; the
// typed surface exposes no mutation, and Detach is the explicit unchecked
// escape back to the raw record.
package dataset
