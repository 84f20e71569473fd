package entity

import "time"

// Package agrupa requisiciones creadas juntas. Su Status se deriva de los miembros.
type Package struct {
	ID            string
	RequesterID   string
	CostCenter    string
	Project       string
	Justification string
	Status        string
	Resolution    string
	CreatedAt     time.Time
	ApprovedAt    *time.Time
}

// PackageLine par (ítem, cantidad) solicitado al crear un paquete.
type PackageLine struct {
	ItemID   string
	Quantity int
}
