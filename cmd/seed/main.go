package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"educrm/internal/config"
	"educrm/internal/database"
	"educrm/internal/domain"
	"educrm/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM chat_messages")
	db.Exec("DELETE FROM document_records")
	db.Exec("DELETE FROM service_registrations")
	db.Exec("DELETE FROM students")
	db.Exec("DELETE FROM conversion_requests")
	db.Exec("DELETE FROM lead_notes")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM organizations")

	ctx := context.Background()
	orgs := repository.NewOrganizationRepository(db)
	users := repository.NewUserRepository(db)
	services := repository.NewServiceRepository(db)
	leads := repository.NewLeadRepository(db)

	log.Println("Creating organization...")
	org := &domain.Organization{
		Name:      "Nomad Education Partners",
		Slug:      "nomad-edu",
		CreatedAt: time.Now(),
	}
	if err := orgs.Create(ctx, org); err != nil {
		log.Fatal("create organization:", err)
	}

	log.Println("Creating users...")
	superAdmin := seedUser(ctx, users, "root@educrm.io", "root123", domain.RoleSuperAdmin, "Platform Admin", 0)
	_ = superAdmin
	seedUser(ctx, users, "director@nomadedu.kz", "admin123", domain.RoleOrgAdmin, "Aigerim Director", org.ID)
	counselor1 := seedUser(ctx, users, "asel@nomadedu.kz", "staff123", domain.RoleCounselor, "Asel K.", org.ID)
	counselor2 := seedUser(ctx, users, "bekzat@nomadedu.kz", "staff123", domain.RoleCounselor, "Bekzat T.", org.ID)

	log.Println("Creating services...")
	var serviceIDs []int64
	for name, category := range map[string]string{
		"Undergraduate admission (UK)": "admission",
		"Graduate admission (USA)":     "admission",
		"Language school placement":    "language",
		"Visa application support":     "visa",
	} {
		svc := &domain.Service{Name: name, Category: category, Active: true}
		if err := services.Create(ctx, svc); err != nil {
			log.Fatal("create service:", err)
		}
		serviceIDs = append(serviceIDs, svc.ID)
	}

	log.Println("Creating leads...")
	demoLeads := []struct {
		name, email, phone string
		stage              domain.Stage
		staff              *int64
	}{
		{"Jane Doe", "jane@example.com", "+7 701 111 2233", domain.StageHot, &counselor1.ID},
		{"Daniyar S.", "daniyar@example.com", "+7 702 222 3344", domain.StageWarm, &counselor2.ID},
		{"Madina A.", "madina@example.com", "+7 705 333 4455", domain.StageNew, nil},
	}
	for i, dl := range demoLeads {
		l := &domain.Lead{
			OrgID:            org.ID,
			Name:             dl.name,
			Email:            dl.email,
			Phone:            dl.phone,
			ServiceIDs:       []int64{serviceIDs[i%len(serviceIDs)]},
			Stage:            dl.stage,
			ConversionStatus: domain.ConversionNone,
			AssignedStaffID:  dl.staff,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := leads.Create(ctx, l); err != nil {
			log.Fatal("create lead:", err)
		}
	}

	log.Println("Seed complete.")
	fmt.Println("Logins:")
	fmt.Println("  super admin: root@educrm.io / root123")
	fmt.Println("  org admin:   director@nomadedu.kz / admin123")
	fmt.Println("  counselors:  asel@nomadedu.kz, bekzat@nomadedu.kz / staff123")
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password string, role domain.UserRole, name string, orgID int64) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash password:", err)
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
		OrgID:        orgID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal("create user:", err)
	}
	return u
}
