package dto

import "time"

// PackageLineRequest par (ítem, cantidad) de un paquete.
type PackageLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

// CreatePackageRequest body para POST /api/packages.
type CreatePackageRequest struct {
	CostCenter    string               `json:"cost_center" validate:"required"`
	Project       string               `json:"project" validate:"required"`
	Justification string               `json:"justification"`
	Items         []PackageLineRequest `json:"items" validate:"required,min=1,dive"`
}

// PackageItemsRequest subconjunto de requisiciones de un paquete a resolver.
type PackageItemsRequest struct {
	RequisitionIDs []string `json:"requisition_ids" validate:"required,min=1,dive,required"`
	Reason         string   `json:"reason"`
}

// PackageResponse salida de un paquete.
type PackageResponse struct {
	ID            string                `json:"id"`
	RequesterID   string                `json:"requester_id"`
	CostCenter    string                `json:"cost_center"`
	Project       string                `json:"project"`
	Justification string                `json:"justification"`
	Status        string                `json:"status"`
	Resolution    string                `json:"resolution,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	ApprovedAt    *time.Time            `json:"approved_at,omitempty"`
	Items         []RequisitionResponse `json:"items,omitempty"`
}

// CreatePackageResponse id del paquete creado.
type CreatePackageResponse struct {
	ID string `json:"id"`
}
