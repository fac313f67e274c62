package mongodb

// Method names a data-access operation of a model.
type Method string

const (
	MethodAggregate  Method = "aggregate"
	MethodUpdate     Method = "update"
	MethodInsert     Method = "insert"
	MethodInsertMany Method = "insertMany"
	MethodFindMany   Method = "findMany"
	MethodDeleteMany Method = "deleteMany"
	MethodBulkWrite  Method = "bulkWrite"
	MethodFind       Method = "find"
	MethodFindByID   Method = "findById"
	MethodDelete     Method = "delete"
	MethodTotal      Method = "total"
)

// Methods is the full set of operations a model recognizes.
var Methods = []Method{
	MethodAggregate,
	MethodUpdate,
	MethodInsert,
	MethodInsertMany,
	MethodFindMany,
	MethodDeleteMany,
	MethodBulkWrite,
	MethodFind,
	MethodFindByID,
	MethodDelete,
	MethodTotal,
}

// CRUDMethods is the allow-list preset for plain single-document CRUD collections.
var CRUDMethods = []Method{
	MethodUpdate,
	MethodInsert,
	MethodFindMany,
	MethodFind,
	MethodFindByID,
	MethodDelete,
}

// IsRecognized reports whether m belongs to the operation set.
func (m Method) IsRecognized() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}
