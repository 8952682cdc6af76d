package models

import "time"

// Gender labels as they appear on the roll
const (
	GenderMale   = "पुरुष"
	GenderFemale = "स्त्री"
)

// Election body types
const (
	ElectionZP = "ZP"
	ElectionPS = "PS"
)

// Reservation categories
const (
	CategoryGeneral = "General"
	CategoryOBC     = "OBC"
	CategorySC      = "SC"
	CategoryST      = "ST"
)

// Labels used when a surname has no mapping
const (
	UnknownLabel   = "Unknown"
	UnknownLabelMr = "अज्ञात"
)

// Gate failure reasons
const (
	ReasonInvalid     = "invalid"
	ReasonDeactivated = "deactivated"
	ReasonExpired     = "expired"
	ReasonUsageLimit  = "usage_limit"
)

// Request types

type ValidateCodeRequest struct {
	Code string `json:"code"`
}

// Domain types

type Voter struct {
	EpicID   string `json:"epicId"`
	Name     string `json:"name"`
	Age      *int   `json:"age"`
	Gender   string `json:"gender"`
	Village  string `json:"village"`
	Division *int   `json:"division"`
	Ward     *int   `json:"ward"`
	Taluka   string `json:"taluka"`
	SerialNo string `json:"serialNo"`
}

type AccessCode struct {
	ID             string
	Code           string
	Name           string
	Customer       *string
	DivisionAccess *string
	WardAccess     *string
	ExpiresAt      *time.Time
	MaxUses        *int
	CurrentUses    int
	Active         bool
	LastUsedAt     *time.Time
}

type SurnameInfo struct {
	Religion    string `json:"religion"`
	ReligionMr  string `json:"religionMr"`
	Community   string `json:"community"`
	CommunityMr string `json:"communityMr"`
}

type ReservationSeat struct {
	ID           string `json:"id"`
	ElectionType string `json:"electionType"`
	Division     string `json:"division"`
	Taluka       string `json:"taluka"`
	Category     string `json:"category"`
	Women        bool   `json:"women"`
	SourcePage   int    `json:"sourcePage"`
}

type Ward struct {
	WardNo   int      `json:"wardNo"`
	Name     string   `json:"name"`
	Villages []string `json:"villages"`
}

type Division struct {
	DivisionNo int    `json:"divisionNo"`
	Name       string `json:"name"`
	Taluka     string `json:"taluka"`
	Wards      []Ward `json:"wards"`
}

// Response types

type ValidateCodeResponse struct {
	Valid          bool       `json:"valid"`
	Token          string     `json:"token"`
	Name           string     `json:"name"`
	DivisionAccess *string    `json:"divisionAccess"`
	WardAccess     *string    `json:"wardAccess"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	UsesRemaining  *int       `json:"usesRemaining"`
}

type VerifyTokenResponse struct {
	Valid          bool    `json:"valid"`
	Name           string  `json:"name,omitempty"`
	DivisionAccess *string `json:"divisionAccess,omitempty"`
	WardAccess     *string `json:"wardAccess,omitempty"`
	UsesRemaining  *int    `json:"usesRemaining,omitempty"`
	Reason         string  `json:"reason,omitempty"`
	Error          string  `json:"error,omitempty"`
}

type SearchResponse struct {
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
	Voters     []Voter `json:"voters"`
}

type EpicResponse struct {
	Found bool   `json:"found"`
	Voter *Voter `json:"voter,omitempty"`
	Error string `json:"error,omitempty"`
}

type GenderCounts struct {
	Total  int `json:"total"`
	Male   int `json:"male"`
	Female int `json:"female"`
	Other  int `json:"other"`
}

type VillageSummary struct {
	Village string `json:"village"`
	GenderCounts
}

type VillageListResponse struct {
	Total    int              `json:"total"`
	Villages []VillageSummary `json:"villages"`
}

type VillageVotersResponse struct {
	Village    string       `json:"village"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
	Stats      GenderCounts `json:"stats"`
	Voters     []Voter      `json:"voters"`
}

type ExportResponse struct {
	Village string  `json:"village"`
	Count   int     `json:"count"`
	Voters  []Voter `json:"voters"`
}

type GenderBreakdown struct {
	Male             int     `json:"male"`
	Female           int     `json:"female"`
	Other            int     `json:"other"`
	MalePercentage   float64 `json:"malePercentage"`
	FemalePercentage float64 `json:"femalePercentage"`
	OtherPercentage  float64 `json:"otherPercentage"`
}

type SpecialCategories struct {
	FirstTimeVoters int `json:"firstTimeVoters"`
	SeniorVoters    int `json:"seniorVoters"`
}

type AnalyticsResponse struct {
	Total             int               `json:"total"`
	Gender            GenderBreakdown   `json:"gender"`
	AgeGroups         map[string]int    `json:"ageGroups"`
	SpecialCategories SpecialCategories `json:"specialCategories"`
	Villages          []VillageSummary  `json:"villages,omitempty"`
}

type DemographicEntry struct {
	Name       string  `json:"name"`
	NameMr     string  `json:"nameMr"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DemographicsResponse struct {
	Religion    []DemographicEntry `json:"religion"`
	Community   []DemographicEntry `json:"community"`
	TotalVoters int                `json:"totalVoters"`
}

type FamilyGroup struct {
	Surname    string   `json:"surname"`
	Members    int      `json:"members"`
	AvgAge     *float64 `json:"avgAge"`
	MinAge     *int     `json:"minAge"`
	MaxAge     *int     `json:"maxAge"`
	Male       int      `json:"male"`
	Female     int      `json:"female"`
	Households int      `json:"households"`
}

type FamilyStatsResponse struct {
	Village       string        `json:"village"`
	TotalFamilies int           `json:"totalFamilies"`
	Families      []FamilyGroup `json:"families"`
}

type TokenCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type FocusGroups struct {
	FirstTimeVoters int `json:"firstTimeVoters"`
	YoungWomen      int `json:"youngWomen"`
	SeniorVoters    int `json:"seniorVoters"`
	WomenVoters     int `json:"womenVoters"`
}

type VillageAnalyticsResponse struct {
	Village      string                  `json:"village"`
	Total        int                     `json:"total"`
	Gender       GenderBreakdown         `json:"gender"`
	AgeGender    map[string]GenderCounts `json:"ageGender"`
	Surnames     []TokenCount            `json:"surnames"`
	FirstNames   []TokenCount            `json:"firstNames"`
	FocusGroups  FocusGroups             `json:"focusGroups"`
	Demographics DemographicsResponse    `json:"demographics"`
}

type ReservationSummary struct {
	ByCategory map[string]int `json:"byCategory"`
	Women      int            `json:"women"`
}

type ReservationsResponse struct {
	Total   int                `json:"total"`
	Summary ReservationSummary `json:"summary"`
	Seats   []ReservationSeat  `json:"seats"`
}

type DivisionsResponse struct {
	Total     int        `json:"total"`
	Divisions []Division `json:"divisions"`
}

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
}
