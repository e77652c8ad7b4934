package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/consignaciones-api/internal/application/analytics"
	"github.com/jhoicas/consignaciones-api/internal/application/consignment"
	"github.com/jhoicas/consignaciones-api/internal/application/intake"
	appinventory "github.com/jhoicas/consignaciones-api/internal/application/inventory"
	"github.com/jhoicas/consignaciones-api/internal/application/settlement"
	"github.com/jhoicas/consignaciones-api/internal/application/units"
	"github.com/jhoicas/consignaciones-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	ConsigneeUC *usecase.ConsigneeUseCase
	CustomerUC  *usecase.CustomerUseCase
	StockLedger *appinventory.Ledger
	Units       *units.Registry
	Intake      *intake.Processor
	Workflow    *consignment.Workflow
	Settlement  *settlement.Ledger
	Balance     *appanalytics.BalanceUseCase
	Dashboard   *appanalytics.DashboardUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", InvalidateDashboard(deps.Dashboard))

	// Products y libro de stock
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockLedger)
	unitHandler := NewUnitHandler(deps.Units)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/movements", productHandler.RecordMovement)
	products.Get("/:id/movements", productHandler.ListMovements)
	products.Get("/:id/units", unitHandler.ListByProduct)

	// Units
	unitsGroup := api.Group("/units")
	unitsGroup.Post("/", unitHandler.Register)
	unitsGroup.Post("/batch", unitHandler.RegisterBatch)
	unitsGroup.Get("/:serial", unitHandler.GetBySerial)
	unitsGroup.Patch("/:serial", unitHandler.Update)
	unitsGroup.Post("/:serial/sell", unitHandler.Sell)
	unitsGroup.Get("/:serial/warranty", unitHandler.Warranty)

	// Intake
	intakeHandler := NewIntakeHandler(deps.Intake)
	api.Post("/intake", intakeHandler.Import)
	api.Post("/intake/csv", intakeHandler.ImportCSV)

	// Consignments
	consignments := api.Group("/consignments")
	consignmentHandler := NewConsignmentHandler(deps.Workflow)
	consignments.Post("/", consignmentHandler.Create)
	consignments.Get("/:id", consignmentHandler.Get)
	consignments.Post("/:id/sales", consignmentHandler.ReportSale)
	consignments.Post("/:id/returns", consignmentHandler.ReportReturn)
	consignments.Post("/:id/recompute", consignmentHandler.Recompute)

	// Consignees, pagos y estado de cuenta
	consignees := api.Group("/consignees")
	consigneeHandler := NewConsigneeHandler(deps.ConsigneeUC, deps.Workflow, deps.Settlement, deps.Balance)
	consignees.Post("/", consigneeHandler.Create)
	consignees.Get("/", consigneeHandler.List)
	consignees.Get("/:id", consigneeHandler.GetByID)
	consignees.Get("/:id/consignments", consigneeHandler.ListConsignments)
	consignees.Post("/:id/payments", consigneeHandler.RegisterPayment)
	consignees.Get("/:id/payments", consigneeHandler.ListPayments)
	consignees.Get("/:id/balance", consigneeHandler.Balance)

	// Customers (compradores de venta directa)
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.Dashboard, deps.Balance)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/receivables", dashboardHandler.Receivables)
}
