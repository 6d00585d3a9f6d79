package leads

// Lead is a single loan lead record. LoanID is the business key and is
// mirrored into ID for clients that address records by "id".
type Lead struct {
	ID       string `json:"id"`
	LoanID   string `json:"loanId"`
	DateTime string `json:"dateTime"`
	Source   string `json:"source"`
	Stage    string `json:"stage"`

	ProfileType     string `json:"profileType"`
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	CustomerProfile string `json:"customerProfile"`
	MaritalStatus   string `json:"maritalStatus"`
	PanNo           string `json:"panNo"`
	MobileNo        string `json:"mobileNo"`
	AltMobileNo     string `json:"altMobileNo"`
	Email           string `json:"email"`
	MotherName      string `json:"motherName"`
	LoanAmount      string `json:"loanAmount"`
	Dsa             string `json:"dsa"`

	RcNo                  string `json:"rcNo"`
	VehicleVerient        string `json:"vehicleVerient"`
	MfgYear               string `json:"mfgYear"`
	OsNo                  string `json:"osNo"`
	KilometreReading      string `json:"kilometreReading"`
	VehicleOwnerContactNo string `json:"vehicleOwnerContactNo"`
	VehicleLocation       string `json:"vehicleLocation"`

	RefFirstName        string `json:"refFirstName"`
	RefFirstMobNo       string `json:"refFirstMobNo"`
	RefSecondName       string `json:"refSecondName"`
	RefSecondMobNo      string `json:"refSecondMobNo"`
	NomineeName         string `json:"nomineeName"`
	NomineeDob          string `json:"nomineeDob"`
	NomineeRelationship string `json:"nomineeRelationship"`

	PermanentAddressType     string `json:"permanentAddressType"`
	PermanentAddressLandmark string `json:"permanentAddressLandmark"`
	PermanentAddressCategory string `json:"permanentAddressCategory"`
	IsCurrentAddressSame     bool   `json:"isCurrentAddressSame"`
	CurrentAddressType       string `json:"currentAddressType"`
	CurrentAddressLandmark   string `json:"currentAddressLandmark"`
	CurrentAddressCategory   string `json:"currentAddressCategory"`
	IsOfficeAddressSame      bool   `json:"isOfficeAddressSame"`
	EmploymentDetail         string `json:"employmentDetail"`
	OfficeAddressType        string `json:"officeAddressType"`
	OfficeAddressLandmark    string `json:"officeAddressLandmark"`

	BankFinance        string `json:"bankFinance"`
	Branch             string `json:"branch"`
	LoginExecutiveName string `json:"loginExecutiveName"`
	CaseDealer         string `json:"caseDealer"`
	RefNameMobNo       string `json:"refNameMobNo"`
	Remarks            string `json:"remarks"`
}
