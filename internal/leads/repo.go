package leads

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLeadNotFound = errors.New("lead not found")

const leadColumns = `
	loan_id, date_time, source, stage,
	profile_type, name, gender, customer_profile, marital_status,
	pan_no, mobile_no, alt_mobile_no, email, mother_name, loan_amount, dsa,
	rc_no, vehicle_verient, mfg_year, os_no, kilometre_reading,
	vehicle_owner_contact_no, vehicle_location,
	ref_first_name, ref_first_mob_no, ref_second_name, ref_second_mob_no,
	nominee_name, nominee_dob, nominee_relationship,
	permanent_address_type, permanent_address_landmark, permanent_address_category,
	is_current_address_same, current_address_type, current_address_landmark,
	current_address_category, is_office_address_same, employment_detail,
	office_address_type, office_address_landmark,
	bank_finance, branch, login_executive_name, case_dealer, ref_name_mob_no, remarks`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func leadArgs(lead *Lead) pgx.NamedArgs {
	return pgx.NamedArgs{
		"loan_id":                    lead.LoanID,
		"date_time":                  lead.DateTime,
		"source":                     lead.Source,
		"stage":                      lead.Stage,
		"profile_type":               lead.ProfileType,
		"name":                       lead.Name,
		"gender":                     lead.Gender,
		"customer_profile":           lead.CustomerProfile,
		"marital_status":             lead.MaritalStatus,
		"pan_no":                     lead.PanNo,
		"mobile_no":                  lead.MobileNo,
		"alt_mobile_no":              lead.AltMobileNo,
		"email":                      lead.Email,
		"mother_name":                lead.MotherName,
		"loan_amount":                lead.LoanAmount,
		"dsa":                        lead.Dsa,
		"rc_no":                      lead.RcNo,
		"vehicle_verient":            lead.VehicleVerient,
		"mfg_year":                   lead.MfgYear,
		"os_no":                      lead.OsNo,
		"kilometre_reading":          lead.KilometreReading,
		"vehicle_owner_contact_no":   lead.VehicleOwnerContactNo,
		"vehicle_location":           lead.VehicleLocation,
		"ref_first_name":             lead.RefFirstName,
		"ref_first_mob_no":           lead.RefFirstMobNo,
		"ref_second_name":            lead.RefSecondName,
		"ref_second_mob_no":          lead.RefSecondMobNo,
		"nominee_name":               lead.NomineeName,
		"nominee_dob":                lead.NomineeDob,
		"nominee_relationship":       lead.NomineeRelationship,
		"permanent_address_type":     lead.PermanentAddressType,
		"permanent_address_landmark": lead.PermanentAddressLandmark,
		"permanent_address_category": lead.PermanentAddressCategory,
		"is_current_address_same":    lead.IsCurrentAddressSame,
		"current_address_type":       lead.CurrentAddressType,
		"current_address_landmark":   lead.CurrentAddressLandmark,
		"current_address_category":   lead.CurrentAddressCategory,
		"is_office_address_same":     lead.IsOfficeAddressSame,
		"employment_detail":          lead.EmploymentDetail,
		"office_address_type":        lead.OfficeAddressType,
		"office_address_landmark":    lead.OfficeAddressLandmark,
		"bank_finance":               lead.BankFinance,
		"branch":                     lead.Branch,
		"login_executive_name":       lead.LoginExecutiveName,
		"case_dealer":                lead.CaseDealer,
		"ref_name_mob_no":            lead.RefNameMobNo,
		"remarks":                    lead.Remarks,
	}
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.LoanID, &lead.DateTime, &lead.Source, &lead.Stage,
		&lead.ProfileType, &lead.Name, &lead.Gender, &lead.CustomerProfile, &lead.MaritalStatus,
		&lead.PanNo, &lead.MobileNo, &lead.AltMobileNo, &lead.Email, &lead.MotherName, &lead.LoanAmount, &lead.Dsa,
		&lead.RcNo, &lead.VehicleVerient, &lead.MfgYear, &lead.OsNo, &lead.KilometreReading,
		&lead.VehicleOwnerContactNo, &lead.VehicleLocation,
		&lead.RefFirstName, &lead.RefFirstMobNo, &lead.RefSecondName, &lead.RefSecondMobNo,
		&lead.NomineeName, &lead.NomineeDob, &lead.NomineeRelationship,
		&lead.PermanentAddressType, &lead.PermanentAddressLandmark, &lead.PermanentAddressCategory,
		&lead.IsCurrentAddressSame, &lead.CurrentAddressType, &lead.CurrentAddressLandmark,
		&lead.CurrentAddressCategory, &lead.IsOfficeAddressSame, &lead.EmploymentDetail,
		&lead.OfficeAddressType, &lead.OfficeAddressLandmark,
		&lead.BankFinance, &lead.Branch, &lead.LoginExecutiveName, &lead.CaseDealer,
		&lead.RefNameMobNo, &lead.Remarks,
	); err != nil {
		return nil, err
	}
	lead.ID = lead.LoanID
	return &lead, nil
}

func (r *Repo) nextLoanID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	yearPrefix := strconv.Itoa(year)

	var maxSeq int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTRING(loan_id FROM 5) AS INTEGER)), 0)
			FROM leads WHERE loan_id LIKE $1 || '%';`,
		yearPrefix,
	).Scan(&maxSeq); err != nil {
		return "", fmt.Errorf("next loan id: %w", err)
	}

	return fmt.Sprintf("%d%05d", year, maxSeq+1), nil
}

func (r *Repo) Add(ctx context.Context, lead *Lead) (*Lead, error) {
	if lead.Name == "" {
		return nil, errors.New("lead name empty")
	}

	if lead.LoanID == "" {
		loanID, err := r.nextLoanID(ctx)
		if err != nil {
			return nil, err
		}
		lead.LoanID = loanID
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO leads (`+leadColumns+`) VALUES (
			@loan_id, @date_time, @source, @stage,
			@profile_type, @name, @gender, @customer_profile, @marital_status,
			@pan_no, @mobile_no, @alt_mobile_no, @email, @mother_name, @loan_amount, @dsa,
			@rc_no, @vehicle_verient, @mfg_year, @os_no, @kilometre_reading,
			@vehicle_owner_contact_no, @vehicle_location,
			@ref_first_name, @ref_first_mob_no, @ref_second_name, @ref_second_mob_no,
			@nominee_name, @nominee_dob, @nominee_relationship,
			@permanent_address_type, @permanent_address_landmark, @permanent_address_category,
			@is_current_address_same, @current_address_type, @current_address_landmark,
			@current_address_category, @is_office_address_same, @employment_detail,
			@office_address_type, @office_address_landmark,
			@bank_finance, @branch, @login_executive_name, @case_dealer, @ref_name_mob_no, @remarks
		);`,
		leadArgs(lead),
	); err != nil {
		return nil, err
	}

	lead.ID = lead.LoanID
	return lead, nil
}

func (r *Repo) Get(ctx context.Context, loanID string) (*Lead, error) {
	lead, err := scanLead(r.db.QueryRow(
		ctx,
		`SELECT `+leadColumns+` FROM leads WHERE loan_id = $1;`,
		loanID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *Repo) Update(ctx context.Context, lead *Lead) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE leads SET
			date_time = @date_time, source = @source, stage = @stage,
			profile_type = @profile_type, name = @name, gender = @gender,
			customer_profile = @customer_profile, marital_status = @marital_status,
			pan_no = @pan_no, mobile_no = @mobile_no, alt_mobile_no = @alt_mobile_no,
			email = @email, mother_name = @mother_name, loan_amount = @loan_amount, dsa = @dsa,
			rc_no = @rc_no, vehicle_verient = @vehicle_verient, mfg_year = @mfg_year,
			os_no = @os_no, kilometre_reading = @kilometre_reading,
			vehicle_owner_contact_no = @vehicle_owner_contact_no, vehicle_location = @vehicle_location,
			ref_first_name = @ref_first_name, ref_first_mob_no = @ref_first_mob_no,
			ref_second_name = @ref_second_name, ref_second_mob_no = @ref_second_mob_no,
			nominee_name = @nominee_name, nominee_dob = @nominee_dob,
			nominee_relationship = @nominee_relationship,
			permanent_address_type = @permanent_address_type,
			permanent_address_landmark = @permanent_address_landmark,
			permanent_address_category = @permanent_address_category,
			is_current_address_same = @is_current_address_same,
			current_address_type = @current_address_type,
			current_address_landmark = @current_address_landmark,
			current_address_category = @current_address_category,
			is_office_address_same = @is_office_address_same,
			employment_detail = @employment_detail,
			office_address_type = @office_address_type,
			office_address_landmark = @office_address_landmark,
			bank_finance = @bank_finance, branch = @branch,
			login_executive_name = @login_executive_name, case_dealer = @case_dealer,
			ref_name_mob_no = @ref_name_mob_no, remarks = @remarks
		WHERE loan_id = @loan_id;`,
		leadArgs(lead),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, loanID string) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM leads WHERE loan_id = $1;`,
		loanID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]Lead, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY id DESC OFFSET $1 LIMIT $2;`,
		offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return all, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
