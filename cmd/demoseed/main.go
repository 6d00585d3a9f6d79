// Seeds the database with demo leads and disbursements for local
// development. Refuses to touch tables that already hold records.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/wheelsweb/backend/internal/db"
	"github.com/wheelsweb/backend/internal/disbursements"
	"github.com/wheelsweb/backend/internal/leads"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
)

func main() {
	dbHost := flag.String("db-host", "localhost", "postgres host")
	dbPort := flag.String("db-port", "5432", "postgres port")
	dbName := flag.String("db-name", "wheelsweb", "postgres database name")
	leadsCount := flag.Int("leads", 25, "number of demo leads to create")
	disbursedShare := flag.Int("disbursed", 10, "how many of the demo leads also get a disbursement")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: *dbHost,
		DBPort: *dbPort,
		DBName: *dbName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	leadsRepo := leads.NewRepo(dbPool)
	disbursementsRepo := disbursements.NewRepo(dbPool)

	existing, err := leadsRepo.Count(ctx)
	if err != nil {
		log.Fatalf("count leads: %s", err)
	}
	if existing > 0 {
		log.Fatalf("leads table already holds %d records, refusing to seed", existing)
	}

	gofakeit.Seed(0)

	disbursed := 0
	for i := 0; i < *leadsCount; i++ {
		lead := demoLead()
		added, err := leadsRepo.Add(ctx, lead)
		if err != nil {
			log.Fatalf("add demo lead: %s", err)
		}

		if disbursed < *disbursedShare {
			added.Stage = "disbursed"
			if err := leadsRepo.Update(ctx, added); err != nil {
				log.Fatalf("mark demo lead disbursed: %s", err)
			}
			if _, err := disbursementsRepo.Add(ctx, demoDisbursement(added)); err != nil {
				log.Fatalf("add demo disbursement: %s", err)
			}
			disbursed++
		}

		log.Printf("demo lead added: [%s] %s", added.LoanID, added.Name)
	}

	log.Printf("done: %d leads, %d disbursements", *leadsCount, disbursed)
}

func demoLead() *leads.Lead {
	loanAmount := gofakeit.Number(50_000, 900_000)
	mfgYear := gofakeit.Number(2005, 2022)
	return &leads.Lead{
		DateTime:        gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()).Format(time.RFC3339),
		Source:          gofakeit.RandomString([]string{"walk-in", "referral", "dealer", "phone"}),
		Stage:           gofakeit.RandomString([]string{"new", "docs-pending", "logged-in", "approved"}),
		ProfileType:     gofakeit.RandomString([]string{"salaried", "self-employed"}),
		Name:            gofakeit.Name(),
		Gender:          gofakeit.RandomString([]string{"male", "female"}),
		CustomerProfile: gofakeit.JobTitle(),
		MaritalStatus:   gofakeit.RandomString([]string{"single", "married"}),
		PanNo:           gofakeit.LetterN(5) + gofakeit.DigitN(4) + gofakeit.Letter(),
		MobileNo:        gofakeit.Numerify("9#########"),
		Email:           gofakeit.Email(),
		MotherName:      gofakeit.Name(),
		LoanAmount:      fmt.Sprintf("%d", loanAmount),
		Dsa:             gofakeit.Company(),
		RcNo:            "KA" + gofakeit.DigitN(2) + gofakeit.LetterN(2) + gofakeit.DigitN(4),
		VehicleVerient:  gofakeit.CarModel(),
		MfgYear:         fmt.Sprintf("%d", mfgYear),
		KilometreReading: fmt.Sprintf(
			"%d", gofakeit.Number(10_000, 150_000),
		),
		VehicleLocation:    gofakeit.City(),
		RefFirstName:       gofakeit.Name(),
		RefFirstMobNo:      gofakeit.Numerify("9#########"),
		NomineeName:        gofakeit.Name(),
		BankFinance:        gofakeit.Company(),
		Branch:             gofakeit.City(),
		LoginExecutiveName: gofakeit.Name(),
		CaseDealer:         gofakeit.Company(),
		Remarks:            gofakeit.Sentence(6),
	}
}

func demoDisbursement(lead *leads.Lead) *disbursements.Disbursement {
	total := gofakeit.Number(50_000, 900_000)
	return &disbursements.Disbursement{
		LoanID:             lead.LoanID,
		DateTime:           time.Now().Format(time.RFC3339),
		Source:             lead.Source,
		Stage:              "disbursed",
		ProfileType:        lead.ProfileType,
		Name:               lead.Name,
		Gender:             lead.Gender,
		PanNo:              lead.PanNo,
		MobileNo:           lead.MobileNo,
		Email:              lead.Email,
		Dsa:                lead.Dsa,
		RcNo:               lead.RcNo,
		VehicleVerient:     lead.VehicleVerient,
		MfgYear:            lead.MfgYear,
		BankFinance:        lead.BankFinance,
		BankFinanceBranch:  lead.Branch,
		LoginExecutiveName: lead.LoginExecutiveName,
		CaseDealer:         lead.CaseDealer,
		TotalLoanAmount:    fmt.Sprintf("%d", total),
		PfCharges:          fmt.Sprintf("%d", total/100),
		NetLoanAmount:      fmt.Sprintf("%d", total-total/100),
		Tenure:             fmt.Sprintf("%d", gofakeit.Number(12, 60)),
		Irr:                fmt.Sprintf("%.1f", gofakeit.Float64Range(11, 22)),
		EmiAmount:          fmt.Sprintf("%d", total/36),
		EmiDate:            fmt.Sprintf("%d", gofakeit.Number(1, 28)),
		Utr:                gofakeit.LetterN(4) + gofakeit.DigitN(12),
		RcCardStatus:       gofakeit.RandomString([]string{"pending", "received"}),
	}
}
