package profile

// Record is the durable, role-scoped profile shown on every role's profile
// screen. Every field has a defined zero default and list fields are never
// nil, so a partial remote document can always render.
type Record struct {
	Identity          Identity           `json:"identity"`
	Personal          Personal           `json:"personal"`
	Job               Job                `json:"job"`
	Education         []Qualification    `json:"education"`
	Experience        []Experience       `json:"experience"`
	Skills            []SkillGroup       `json:"skills"`
	Bank              Bank               `json:"bank"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
	IDProofs          []IDProof          `json:"idProofs"`
}

type Identity struct {
	Name       string `json:"name"`
	RoleTitle  string `json:"roleTitle"`
	Department string `json:"department"`
	Location   string `json:"location"`
}

type Personal struct {
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	DateOfBirth   string `json:"dateOfBirth"`
	MaritalStatus string `json:"maritalStatus"`
	BloodGroup    string `json:"bloodGroup"`
}

type Job struct {
	EmployeeNumber   string `json:"employeeNumber"`
	EmploymentType   string `json:"employmentType"`
	JoinDate         string `json:"joinDate"`
	WorkLocation     string `json:"workLocation"`
	ReportingManager string `json:"reportingManager"`
}

type Qualification struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Grade       string `json:"grade"`
}

type Experience struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	From    string `json:"from"`
	To      string `json:"to"`
	Summary string `json:"summary"`
}

type SkillGroup struct {
	Group string `json:"group"`
	Items string `json:"items"`
}

type Bank struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	PAN           string `json:"pan"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

type IDProof struct {
	Kind   string `json:"kind"`
	Number string `json:"number"`
}
