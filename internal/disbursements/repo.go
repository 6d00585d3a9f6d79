package disbursements

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDisbursementNotFound = errors.New("disbursement not found")

const disbursementColumns = `
	loan_id, date_time, source, stage,
	profile_type, name, gender, customer_profile, pan_no, mobile_no, email, dsa,
	rc_no, vehicle_verient, mfg_year, os_no, kilometre_reading, vehicle_owner_contact_no,
	bank_finance, bank_finance_branch, login_executive_name, case_dealer, dealer_mob, remarks,
	total_loan_amount, pf_charges, documentation_charges, loan_insurance_charges,
	other_charges, rto_charges, net_loan_amount, tenure, irr, emi_amount, emi_date,
	transaction1, transaction2, remarks_for_hold, utr, rc_card_status`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func disbursementArgs(d *Disbursement) pgx.NamedArgs {
	return pgx.NamedArgs{
		"loan_id":                  d.LoanID,
		"date_time":                d.DateTime,
		"source":                   d.Source,
		"stage":                    d.Stage,
		"profile_type":             d.ProfileType,
		"name":                     d.Name,
		"gender":                   d.Gender,
		"customer_profile":         d.CustomerProfile,
		"pan_no":                   d.PanNo,
		"mobile_no":                d.MobileNo,
		"email":                    d.Email,
		"dsa":                      d.Dsa,
		"rc_no":                    d.RcNo,
		"vehicle_verient":          d.VehicleVerient,
		"mfg_year":                 d.MfgYear,
		"os_no":                    d.OsNo,
		"kilometre_reading":        d.KilometreReading,
		"vehicle_owner_contact_no": d.VehicleOwnerContactNo,
		"bank_finance":             d.BankFinance,
		"bank_finance_branch":      d.BankFinanceBranch,
		"login_executive_name":     d.LoginExecutiveName,
		"case_dealer":              d.CaseDealer,
		"dealer_mob":               d.DealerMob,
		"remarks":                  d.Remarks,
		"total_loan_amount":        d.TotalLoanAmount,
		"pf_charges":               d.PfCharges,
		"documentation_charges":    d.DocumentationCharges,
		"loan_insurance_charges":   d.LoanInsuranceCharges,
		"other_charges":            d.OtherCharges,
		"rto_charges":              d.RtoCharges,
		"net_loan_amount":          d.NetLoanAmount,
		"tenure":                   d.Tenure,
		"irr":                      d.Irr,
		"emi_amount":               d.EmiAmount,
		"emi_date":                 d.EmiDate,
		"transaction1":             d.Transaction1,
		"transaction2":             d.Transaction2,
		"remarks_for_hold":         d.RemarksForHold,
		"utr":                      d.Utr,
		"rc_card_status":           d.RcCardStatus,
	}
}

func scanDisbursement(row pgx.Row) (*Disbursement, error) {
	var d Disbursement
	if err := row.Scan(
		&d.LoanID, &d.DateTime, &d.Source, &d.Stage,
		&d.ProfileType, &d.Name, &d.Gender, &d.CustomerProfile, &d.PanNo, &d.MobileNo, &d.Email, &d.Dsa,
		&d.RcNo, &d.VehicleVerient, &d.MfgYear, &d.OsNo, &d.KilometreReading, &d.VehicleOwnerContactNo,
		&d.BankFinance, &d.BankFinanceBranch, &d.LoginExecutiveName, &d.CaseDealer, &d.DealerMob, &d.Remarks,
		&d.TotalLoanAmount, &d.PfCharges, &d.DocumentationCharges, &d.LoanInsuranceCharges,
		&d.OtherCharges, &d.RtoCharges, &d.NetLoanAmount, &d.Tenure, &d.Irr, &d.EmiAmount, &d.EmiDate,
		&d.Transaction1, &d.Transaction2, &d.RemarksForHold, &d.Utr, &d.RcCardStatus,
	); err != nil {
		return nil, err
	}
	d.ID = d.LoanID
	return &d, nil
}

func (r *Repo) Add(ctx context.Context, d *Disbursement) (*Disbursement, error) {
	if d.LoanID == "" {
		return nil, errors.New("disbursement loan id empty")
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO disbursement (`+disbursementColumns+`) VALUES (
			@loan_id, @date_time, @source, @stage,
			@profile_type, @name, @gender, @customer_profile, @pan_no, @mobile_no, @email, @dsa,
			@rc_no, @vehicle_verient, @mfg_year, @os_no, @kilometre_reading, @vehicle_owner_contact_no,
			@bank_finance, @bank_finance_branch, @login_executive_name, @case_dealer, @dealer_mob, @remarks,
			@total_loan_amount, @pf_charges, @documentation_charges, @loan_insurance_charges,
			@other_charges, @rto_charges, @net_loan_amount, @tenure, @irr, @emi_amount, @emi_date,
			@transaction1, @transaction2, @remarks_for_hold, @utr, @rc_card_status
		);`,
		disbursementArgs(d),
	); err != nil {
		return nil, err
	}

	d.ID = d.LoanID
	return d, nil
}

func (r *Repo) Get(ctx context.Context, loanID string) (*Disbursement, error) {
	d, err := scanDisbursement(r.db.QueryRow(
		ctx,
		`SELECT `+disbursementColumns+` FROM disbursement WHERE loan_id = $1;`,
		loanID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDisbursementNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Repo) Update(ctx context.Context, d *Disbursement) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE disbursement SET
			date_time = @date_time, source = @source, stage = @stage,
			profile_type = @profile_type, name = @name, gender = @gender,
			customer_profile = @customer_profile, pan_no = @pan_no,
			mobile_no = @mobile_no, email = @email, dsa = @dsa,
			rc_no = @rc_no, vehicle_verient = @vehicle_verient, mfg_year = @mfg_year,
			os_no = @os_no, kilometre_reading = @kilometre_reading,
			vehicle_owner_contact_no = @vehicle_owner_contact_no,
			bank_finance = @bank_finance, bank_finance_branch = @bank_finance_branch,
			login_executive_name = @login_executive_name, case_dealer = @case_dealer,
			dealer_mob = @dealer_mob, remarks = @remarks,
			total_loan_amount = @total_loan_amount, pf_charges = @pf_charges,
			documentation_charges = @documentation_charges,
			loan_insurance_charges = @loan_insurance_charges,
			other_charges = @other_charges, rto_charges = @rto_charges,
			net_loan_amount = @net_loan_amount, tenure = @tenure, irr = @irr,
			emi_amount = @emi_amount, emi_date = @emi_date,
			transaction1 = @transaction1, transaction2 = @transaction2,
			remarks_for_hold = @remarks_for_hold, utr = @utr,
			rc_card_status = @rc_card_status
		WHERE loan_id = @loan_id;`,
		disbursementArgs(d),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDisbursementNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, loanID string) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM disbursement WHERE loan_id = $1;`,
		loanID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDisbursementNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]Disbursement, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+disbursementColumns+` FROM disbursement ORDER BY id DESC OFFSET $1 LIMIT $2;`,
		offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []Disbursement
	for rows.Next() {
		d, err := scanDisbursement(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return all, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM disbursement;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
