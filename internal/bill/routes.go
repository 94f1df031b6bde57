package bill

// Route identifiers handed to the navigation callback. Routing itself is
// owned by the embedding application.
const (
	RouteBills   = "#employee/bills"
	RouteNewBill = "#employee/bill/new"
)
