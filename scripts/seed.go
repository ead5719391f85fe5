package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/adapters/database"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Emergencydispatchdesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Emergencydispatchdesign/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	hospitalRepo := database.NewHospitalAdapter(pgClient)
	ambulanceRepo := database.NewAmbulanceAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				hospital_reservations,
				emergency_cases,
				emergency_requests,
				ambulances,
				hospitals
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed Hospitals
	hospitals := []entities.Hospital{
		{
			ID:                      uuid.New().String(),
			Name:                    "Lagos University Teaching Hospital",
			Type:                    "Tertiary Trauma Center",
			Location:                entities.Location{Latitude: 6.5187, Longitude: 3.3556},
			Address:                 "Ishaga Road, Idi-Araba",
			City:                    "Lagos",
			TotalBeds:               120,
			ICUBeds:                 20,
			Specialties:             []string{"trauma", "surgery", "cardiology", "neurology"},
			EmergencyLevelSupported: "LEVEL_1",
			ContactNumber:           "+234-801-000-0001",
			CreatedAt:               time.Now(),
		},
		{
			ID:                      uuid.New().String(),
			Name:                    "General Hospital Ikeja",
			Type:                    "General Hospital",
			Location:                entities.Location{Latitude: 6.5966, Longitude: 3.3421},
			Address:                 "Obafemi Awolowo Way, Ikeja",
			City:                    "Lagos",
			TotalBeds:               80,
			ICUBeds:                 8,
			Specialties:             []string{"general medicine", "pediatrics", "obstetrics"},
			EmergencyLevelSupported: "LEVEL_2",
			ContactNumber:           "+234-801-000-0002",
			CreatedAt:               time.Now(),
		},
		{
			ID:                      uuid.New().String(),
			Name:                    "Reddington Multi-Specialist Hospital",
			Type:                    "Multi-Specialist",
			Location:                entities.Location{Latitude: 6.4281, Longitude: 3.4219},
			Address:                 "Idowu Martins Street, Victoria Island",
			City:                    "Lagos",
			TotalBeds:               60,
			ICUBeds:                 12,
			Specialties:             []string{"cardiology", "surgery", "orthopedics"},
			EmergencyLevelSupported: "LEVEL_1",
			ContactNumber:           "+234-801-000-0003",
			CreatedAt:               time.Now(),
		},
		{
			ID:                      uuid.New().String(),
			Name:                    "Gbagada General Hospital",
			Type:                    "General Hospital",
			Location:                entities.Location{Latitude: 6.5536, Longitude: 3.3885},
			Address:                 "Hospital Road, Gbagada",
			City:                    "Lagos",
			TotalBeds:               100,
			ICUBeds:                 6,
			Specialties:             []string{"general medicine", "emergency medicine"},
			EmergencyLevelSupported: "LEVEL_2",
			ContactNumber:           "+234-801-000-0004",
			CreatedAt:               time.Now(),
		},
		{
			ID:                      uuid.New().String(),
			Name:                    "St. Nicholas Hospital",
			Type:                    "Specialist Hospital",
			Location:                entities.Location{Latitude: 6.4541, Longitude: 3.3947},
			Address:                 "Campbell Street, Lagos Island",
			City:                    "Lagos",
			TotalBeds:               45,
			ICUBeds:                 5,
			Specialties:             []string{"nephrology", "urology", "surgery"},
			EmergencyLevelSupported: "LEVEL_3",
			ContactNumber:           "+234-801-000-0005",
			CreatedAt:               time.Now(),
		},
	}

	for _, h := range hospitals {
		if err := hospitalRepo.Create(ctx, &h); err != nil {
			log.Printf("Failed to create hospital %s: %v", h.Name, err)
		}
	}
	log.Printf("Seeded %d hospitals", len(hospitals))

	// 2. Seed Ambulances
	ambulances := []struct {
		registration string
		organization string
		username     string
		lat, lng     float64
	}{
		{"LAG-AMB-001", "Lagos State Ambulance Service", "lasambus-001", 6.5244, 3.3792},
		{"LAG-AMB-002", "Lagos State Ambulance Service", "lasambus-002", 6.6018, 3.3515},
		{"LAG-AMB-003", "Trauma Care Response", "tcr-003", 6.4474, 3.4057},
	}

	for _, a := range ambulances {
		ambulance := &entities.Ambulance{
			ID:                 uuid.New().String(),
			RegistrationNumber: a.registration,
			Organization:       a.organization,
			Username:           a.username,
			Status:             entities.AmbulanceStatusIdle,
			Location:           entities.Location{Latitude: a.lat, Longitude: a.lng},
			CreatedAt:          time.Now(),
			UpdatedAt:          time.Now(),
		}
		if err := ambulanceRepo.Create(ctx, ambulance, "changeme"); err != nil {
			log.Printf("Failed to create ambulance %s: %v", a.registration, err)
		}
	}
	log.Printf("Seeded %d ambulances", len(ambulances))

	log.Println("Seeding complete")
}
