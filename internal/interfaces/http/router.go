package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Requisiciones-api/internal/application/auth"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/report"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
	"github.com/jhoicas/Requisiciones-api/internal/application/usecase"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	ItemUC           *usecase.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	PackageUC        *requisition.PackageUseCase
	RequisitionUC    *requisition.RequisitionUseCase
	Reports          *report.Service
	JWTSecret        string
}

// Router registra las rutas de la API.
// Las rutas fijas (pending, mine) se registran antes que /:id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	admin := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleUser)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), anyRole)

	userHandler := NewUserHandler(deps.UserUC)
	packageHandler := NewPackageHandler(deps.PackageUC)
	requisitionHandler := NewRequisitionHandler(deps.RequisitionUC)
	users := protected.Group("/users")
	users.Get("/me", userHandler.Me)
	users.Post("/", admin, userHandler.Create)
	users.Get("/", admin, userHandler.List)
	users.Get("/:id/packages", admin, packageHandler.ByUser)
	users.Get("/:id/requisitions", admin, requisitionHandler.ByUser)

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", admin, itemHandler.Create)
	items.Patch("/:id", admin, itemHandler.Update)
	items.Delete("/:id", admin, itemHandler.Delete)

	inv := protected.Group("/inventory", admin)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Replenishment)
	inv.Post("/entries", inventoryHandler.RegisterEntry)
	inv.Post("/withdrawals", inventoryHandler.RegisterWithdrawal)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	packages := protected.Group("/packages")
	packages.Post("/", packageHandler.Create)
	packages.Get("/pending", admin, packageHandler.Pending)
	packages.Get("/mine", packageHandler.Mine)
	packages.Get("/:id", packageHandler.GetByID)
	packages.Get("/:id/items", packageHandler.Items)
	packages.Post("/:id/approve", admin, packageHandler.Approve)
	packages.Post("/:id/reject", admin, packageHandler.Reject)
	packages.Post("/:id/items/approve", admin, packageHandler.ApproveItems)
	packages.Post("/:id/items/reject", admin, packageHandler.RejectItems)

	reqs := protected.Group("/requisitions")
	reqs.Post("/", requisitionHandler.Create)
	reqs.Get("/pending", admin, requisitionHandler.Pending)
	reqs.Get("/mine", requisitionHandler.Mine)
	reqs.Post("/:id/approve", admin, requisitionHandler.Approve)
	reqs.Post("/:id/reject", admin, requisitionHandler.Reject)

	reportHandler := NewReportHandler(deps.Reports)
	reports := protected.Group("/reports", admin)
	reports.Get("/stock", reportHandler.StockReport)
	reports.Get("/stock.pdf", reportHandler.StockReportPDF)
	reports.Get("/movements", reportHandler.MovementReport)
	reports.Get("/movements.xlsx", reportHandler.MovementReportXLSX)

	export := protected.Group("/export", admin)
	export.Get("/snapshot.json", reportHandler.ExportSnapshot)
	export.Get("/items.xlsx", reportHandler.ExportItemsXLSX)
	export.Get("/items.csv", reportHandler.ExportItemsCSV)
	export.Get("/inventory.xml", reportHandler.ExportInventoryXML)

	imp := protected.Group("/import", admin)
	imp.Post("/snapshot", reportHandler.ImportSnapshot)
	imp.Post("/items", reportHandler.ImportItems)
}
