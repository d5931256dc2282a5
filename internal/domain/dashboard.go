package domain

import "time"

// Read models served by the operations dashboards. They are loaded from
// fixtures or upstream feeds and never mutated through the API.

type SecurityAlert struct {
	ID              string    `bson:"_id" json:"id"`
	Type            string    `bson:"type" json:"type"`
	Severity        string    `bson:"severity" json:"severity"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
	Description     string    `bson:"description" json:"description"`
	Status          string    `bson:"status" json:"status"`
	AffectedSystems []string  `bson:"affectedSystems" json:"affectedSystems"`
	MitigationSteps []string  `bson:"mitigationSteps" json:"mitigationSteps"`
	ResponseTime    string    `bson:"responseTime" json:"responseTime"`
}

type SecurityCompliance struct {
	ID               string    `bson:"_id" json:"id"`
	Framework        string    `bson:"framework" json:"framework"`
	Status           string    `bson:"status" json:"status"`
	LastAudit        time.Time `bson:"lastAudit" json:"lastAudit"`
	Findings         []string  `bson:"findings" json:"findings"`
	NextAuditDue     time.Time `bson:"nextAuditDue" json:"nextAuditDue"`
	ResponsibleParty string    `bson:"responsibleParty" json:"responsibleParty"`
}

type SustainabilityMetrics struct {
	ID                   string  `bson:"_id" json:"id"`
	TotalCarbonEmissions float64 `bson:"totalCarbonEmissions" json:"totalCarbonEmissions"`
	EmissionReduction    string  `bson:"emissionReduction" json:"emissionReduction"`
	EnergyEfficiency     float64 `bson:"energyEfficiency" json:"energyEfficiency"`
	EmptyMilesPercentage float64 `bson:"emptyMilesPercentage" json:"emptyMilesPercentage"`
	CarbonOffsets        float64 `bson:"carbonOffsets" json:"carbonOffsets"`
	SustainabilityScore  float64 `bson:"sustainabilityScore" json:"sustainabilityScore"`
}

type SustainabilityRecommendation struct {
	ID              string `bson:"_id" json:"id"`
	Title           string `bson:"title" json:"title"`
	Description     string `bson:"description" json:"description"`
	PotentialImpact string `bson:"potentialImpact" json:"potentialImpact"`
	Difficulty      string `bson:"difficulty" json:"difficulty"`
	TimeToImplement string `bson:"timeToImplement" json:"timeToImplement"`
	CostSavings     string `bson:"costSavings" json:"costSavings"`
}

type MultiModalRoute struct {
	ID              string             `bson:"_id" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Status          string             `bson:"status" json:"status"`
	OriginType      string             `bson:"originType" json:"originType"`
	DestinationType string             `bson:"destinationType" json:"destinationType"`
	TransportModes  []TransportSegment `bson:"transportModes" json:"transportModes"`
	TotalDistance   string             `bson:"totalDistance" json:"totalDistance"`
	TotalDuration   string             `bson:"totalDuration" json:"totalDuration"`
	TotalCost       string             `bson:"totalCost" json:"totalCost"`
	CO2Emissions    string             `bson:"co2Emissions" json:"co2Emissions"`
	Reliability     float64            `bson:"reliability" json:"reliability"`
}

type TransportSegment struct {
	ID          string `bson:"id" json:"id"`
	RouteID     string `bson:"routeId" json:"routeId"`
	Mode        string `bson:"mode" json:"mode"`
	Origin      string `bson:"origin" json:"origin"`
	Destination string `bson:"destination" json:"destination"`
	Distance    string `bson:"distance" json:"distance"`
	Duration    string `bson:"duration" json:"duration"`
	Cost        string `bson:"cost" json:"cost"`
	Status      string `bson:"status" json:"status"`
	Carrier     string `bson:"carrier" json:"carrier"`
}

type WeatherEvent struct {
	ID             string    `bson:"_id" json:"id"`
	Type           string    `bson:"type" json:"type"`
	Severity       string    `bson:"severity" json:"severity"`
	Region         string    `bson:"region" json:"region"`
	AffectedRoutes int       `bson:"affectedRoutes" json:"affectedRoutes"`
	StartTime      time.Time `bson:"startTime" json:"startTime"`
	EndTime        time.Time `bson:"endTime" json:"endTime"`
	Description    string    `bson:"description" json:"description"`
}

// WeatherImpactMetrics is derived from the active weather events
type WeatherImpactMetrics struct {
	ActiveAlerts      int    `json:"activeAlerts"`
	AffectedShipments int    `json:"affectedShipments"`
	RiskLevel         string `json:"riskLevel"`
}

type AlternativeRoute struct {
	ID               string  `bson:"_id" json:"id"`
	OriginalRoute    string  `bson:"originalRoute" json:"originalRoute"`
	AlternativeRoute string  `bson:"alternativeRoute" json:"alternativeRoute"`
	TimeSaved        string  `bson:"timeSaved" json:"timeSaved"`
	WeatherCondition string  `bson:"weatherCondition" json:"weatherCondition"`
	Confidence       float64 `bson:"confidence" json:"confidence"`
}

// DashboardData groups every dashboard read model for seeding
type DashboardData struct {
	SecurityAlerts    []SecurityAlert
	Compliance        []SecurityCompliance
	Sustainability    *SustainabilityMetrics
	Recommendations   []SustainabilityRecommendation
	Routes            []MultiModalRoute
	WeatherEvents     []WeatherEvent
	AlternativeRoutes []AlternativeRoute
	Inventory         []InventoryItem
}

// SummarizeWeather derives impact metrics from events active at now
func SummarizeWeather(events []WeatherEvent, now time.Time) WeatherImpactMetrics {
	m := WeatherImpactMetrics{RiskLevel: "low"}
	rank := map[string]int{"minor": 1, "moderate": 2, "severe": 3}
	worst := 0
	for _, e := range events {
		if now.Before(e.StartTime) || (!e.EndTime.IsZero() && now.After(e.EndTime)) {
			continue
		}
		m.ActiveAlerts++
		m.AffectedShipments += e.AffectedRoutes
		if rank[e.Severity] > worst {
			worst = rank[e.Severity]
		}
	}
	switch worst {
	case 3:
		m.RiskLevel = "high"
	case 2:
		m.RiskLevel = "medium"
	}
	return m
}
