package disbursements

// Disbursement records a paid-out loan. LoanID ties it back to the lead it
// originated from and doubles as ID for clients addressing by "id".
type Disbursement struct {
	ID       string `json:"id"`
	LoanID   string `json:"loanId"`
	DateTime string `json:"dateTime"`
	Source   string `json:"source"`
	Stage    string `json:"stage"`

	ProfileType     string `json:"profileType"`
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	CustomerProfile string `json:"customerProfile"`
	PanNo           string `json:"panNo"`
	MobileNo        string `json:"mobileNo"`
	Email           string `json:"email"`
	Dsa             string `json:"dsa"`

	RcNo                  string `json:"rcNo"`
	VehicleVerient        string `json:"vehicleVerient"`
	MfgYear               string `json:"mfgYear"`
	OsNo                  string `json:"osNo"`
	KilometreReading      string `json:"kilometreReading"`
	VehicleOwnerContactNo string `json:"vehicleOwnerContactNo"`

	BankFinance        string `json:"bankFinance"`
	BankFinanceBranch  string `json:"bankFinanceBranch"`
	LoginExecutiveName string `json:"loginExecutiveName"`
	CaseDealer         string `json:"caseDealer"`
	DealerMob          string `json:"dealerMob"`
	Remarks            string `json:"remarks"`

	TotalLoanAmount      string `json:"totalLoanAmount"`
	PfCharges            string `json:"pfCharges"`
	DocumentationCharges string `json:"documentationCharges"`
	LoanInsuranceCharges string `json:"loanInsuranceCharges"`
	OtherCharges         string `json:"otherCharges"`
	RtoCharges           string `json:"rtoCharges"`
	NetLoanAmount        string `json:"netLoanAmount"`
	Tenure               string `json:"tenure"`
	Irr                  string `json:"irr"`
	EmiAmount            string `json:"emiAmount"`
	EmiDate              string `json:"emiDate"`

	Transaction1   string `json:"transaction1"`
	Transaction2   string `json:"transaction2"`
	RemarksForHold string `json:"remarksForHold"`
	Utr            string `json:"utr"`
	RcCardStatus   string `json:"rcCardStatus"`
}
