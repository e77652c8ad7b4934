package repository

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Products     ProductRepository
	Units        UnitRepository
	Movements    StockMovementRepository
	Consignments ConsignmentRepository
	Consignees   ConsigneeRepository
	Payments     PaymentRepository
	Customers    CustomerRepository
}
