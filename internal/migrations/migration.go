package migrations

import (
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"order_manager/internal/models"
)

// RunMigrations creates default data for a fresh database: one empresa, an
// admin actor, payment methods and a small demo catalog with complement
// groups, options and one group-specific price override.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	var count int64
	if err := db.Model(&models.Empresa{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Default data already present, skipping seed")
		return nil
	}

	if err := createDefaultData(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	empresa := &models.Empresa{Name: "Demo Burger House", IsActive: true}
	if err := db.Create(empresa).Error; err != nil {
		return err
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		EmpresaID:    empresa.ID,
		Username:     "admin",
		Email:        "admin@demo.local",
		PasswordHash: string(adminPassword),
		Role:         string(models.SuperAdmin),
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	for _, name := range []string{"cash", "card", "pix"} {
		pm := &models.PaymentMethod{EmpresaID: empresa.ID, Name: name, IsActive: true}
		if err := db.Create(pm).Error; err != nil {
			return err
		}
	}

	burger := &models.Product{EmpresaID: empresa.ID, Name: "House Burger", Price: decimal.NewFromFloat(20.00), IsActive: true}
	soda := &models.Product{EmpresaID: empresa.ID, Name: "Soda", Price: decimal.NewFromFloat(6.00), IsActive: true}
	feijoada := &models.Recipe{EmpresaID: empresa.ID, Name: "Feijoada", Price: decimal.NewFromFloat(35.00), IsActive: true}
	comboDuo := &models.Combo{EmpresaID: empresa.ID, Name: "Burger + Soda Combo", Price: decimal.NewFromFloat(24.00), IsActive: true}
	for _, m := range []interface{}{burger, soda, feijoada, comboDuo} {
		if err := db.Create(m).Error; err != nil {
			return err
		}
	}

	extras := &models.Complement{
		EmpresaID:              empresa.ID,
		Name:                   "Extras",
		Obrigatorio:            false,
		Quantitativo:           true,
		PermiteMultiplaEscolha: true,
		IsActive:               true,
	}
	pointOfMeat := &models.Complement{
		EmpresaID:              empresa.ID,
		Name:                   "Point of Meat",
		Obrigatorio:            true,
		Quantitativo:           false,
		PermiteMultiplaEscolha: false,
		IsActive:               true,
	}
	if err := db.Create(extras).Error; err != nil {
		return err
	}
	if err := db.Create(pointOfMeat).Error; err != nil {
		return err
	}

	bacon := &models.Adicional{EmpresaID: empresa.ID, Name: "Bacon", Price: decimal.NewFromFloat(5.00), IsActive: true}
	cheese := &models.Adicional{EmpresaID: empresa.ID, Name: "Extra Cheese", Price: decimal.NewFromFloat(4.00), IsActive: true}
	rare := &models.Adicional{EmpresaID: empresa.ID, Name: "Rare", Price: decimal.Zero, IsActive: true}
	wellDone := &models.Adicional{EmpresaID: empresa.ID, Name: "Well Done", Price: decimal.Zero, IsActive: true}
	for _, m := range []*models.Adicional{bacon, cheese, rare, wellDone} {
		if err := db.Create(m).Error; err != nil {
			return err
		}
	}

	// Bacon carries a group-specific price inside Extras.
	extrasBaconPrice := decimal.NewFromFloat(4.00)
	memberships := []*models.ComplementOption{
		{ComplementID: extras.ID, AdicionalID: bacon.ID, OverridePrice: &extrasBaconPrice, DisplayOrder: 1},
		{ComplementID: extras.ID, AdicionalID: cheese.ID, DisplayOrder: 2},
		{ComplementID: pointOfMeat.ID, AdicionalID: rare.ID, DisplayOrder: 1},
		{ComplementID: pointOfMeat.ID, AdicionalID: wellDone.ID, DisplayOrder: 2},
	}
	for _, m := range memberships {
		if err := db.Create(m).Error; err != nil {
			return err
		}
	}

	links := []*models.ComplementLink{
		{ComplementID: extras.ID, SellableKind: models.KindProduct, SellableID: burger.ID, DisplayOrder: 1},
		{ComplementID: pointOfMeat.ID, SellableKind: models.KindProduct, SellableID: burger.ID, DisplayOrder: 2},
		{ComplementID: extras.ID, SellableKind: models.KindCombo, SellableID: comboDuo.ID, DisplayOrder: 1},
	}
	for _, l := range links {
		if err := db.Create(l).Error; err != nil {
			return err
		}
	}

	// Pre-create sequence counters so the first finalize per channel does
	// not have to insert under load.
	for _, ch := range []models.Channel{models.ChannelDelivery, models.ChannelTable, models.ChannelCounter} {
		counter := &models.OrderCounter{EmpresaID: empresa.ID, Channel: ch, LastValue: 0}
		if err := db.Create(counter).Error; err != nil {
			return err
		}
	}

	log.Println("Default data created")
	return nil
}
