package web

// Feature is a card in the home page feature grid.
type Feature struct {
	Title       string
	Description string
}

// Stat is a headline figure on the home page.
type Stat struct {
	Value string
	Label string
}

// Testimonial is a client quote.
type Testimonial struct {
	Quote    string
	Author   string
	Position string
}

// TeamMember is a profile on the about page.
type TeamMember struct {
	Name        string
	Role        string
	Description string
}

// Milestone is an entry in the about page timeline.
type Milestone struct {
	When string
	Text string
}

// ContactInfo is the company's postal, email and phone details.
type ContactInfo struct {
	AddressLines []string
	Emails       []string
	Phones       []string
	Hours        string
}

// Content is the static copy shown across the site.
type Content struct {
	Tagline      string
	Stats        []Stat
	Features     []Feature
	Testimonials []Testimonial
	Mission      []string
	Milestones   []Milestone
	WhySolar     []Feature
	Team         []TeamMember
	Contact      ContactInfo
}

// SiteContent is the copy rendered by the page templates and served by the
// content API.
var SiteContent = Content{
	Tagline: "Find optimal locations for solar energy plants across India with our data-driven platform that analyzes solar radiation, land availability, and more.",
	Stats: []Stat{
		{Value: "15,000+", Label: "Locations Analyzed"},
		{Value: "500+", Label: "Optimized Sites"},
		{Value: "28+", Label: "States Covered"},
		{Value: "95%", Label: "Accuracy Rate"},
	},
	Features: []Feature{
		{Title: "Solar Radiation Analysis", Description: "We analyze historical solar radiation data to identify areas with maximum energy potential throughout the year."},
		{Title: "Land Availability Mapping", Description: "Our platform identifies suitable land parcels considering factors like size, slope, and proximity to infrastructure."},
		{Title: "Weather Pattern Prediction", Description: "We incorporate historical weather patterns to predict future solar energy output with higher accuracy."},
		{Title: "ROI Calculation", Description: "Estimate the return on investment for different locations based on energy output and infrastructure costs."},
		{Title: "Comprehensive Data Collection", Description: "We collect and analyze a wide range of data points to provide you with the most accurate recommendations."},
		{Title: "Interactive Maps", Description: "Explore potential locations through our interactive maps with detailed information on each site."},
	},
	Testimonials: []Testimonial{
		{Quote: "SolarSite helped us identify the perfect location for our 5MW solar plant. The data-driven approach saved us months of research.", Author: "Raj Patel", Position: "Director, GreenEnergy Ltd"},
		{Quote: "The ROI predictions were spot on. Our solar farm is performing exactly as the platform predicted, which has been crucial for our investors.", Author: "Priya Singh", Position: "CEO, SunPower Solutions"},
		{Quote: "As a government agency, we needed comprehensive data across multiple states. SolarSite delivered beyond our expectations.", Author: "Aditya Sharma", Position: "Project Lead, MNRE"},
	},
	Mission: []string{
		"We're committed to enhancing solar energy adoption across India by removing guesswork from site selection.",
		"We balance energy potential with environmental impact to recommend truly sustainable solutions.",
		"Our recommendations are backed by comprehensive data analysis and scientific methodologies.",
	},
	Milestones: []Milestone{
		{When: "Apr", Text: "The project began as a collaborative initiative to identify optimal locations for solar power plants across India, starting with solar irradiance, elevation, rainfall, land use and population density datasets."},
		{When: "May", Text: "Raw datasets were cleaned, normalized and harmonized into a unified geospatial grid, enriched with temperature, humidity, elevation and land cover values."},
		{When: "Jun", Text: "A suitability model was trained on the harmonized grid to score candidate sites."},
		{When: "Now", Text: "A ready-to-use suitability dataset across thousands of geolocations in India, ranked for government agencies, energy planners and solar investors."},
	},
	WhySolar: []Feature{
		{Title: "Abundant Resource", Description: "India receives an average of 300 sunny days per year, with an energy potential of 5,000 trillion kWh/year - far exceeding the country's total energy needs."},
		{Title: "Clean Energy", Description: "Solar power produces no air or water pollution, no greenhouse gas emissions, and has minimal environmental impact compared to conventional energy sources."},
		{Title: "Economic Growth", Description: "Solar projects create local jobs and reduce dependence on imported fuel."},
	},
	Team: []TeamMember{
		{Name: "K R Aditya Shastry", Role: "Web Developer", Description: "Designed and developed the front-end and back-end components of the application."},
		{Name: "K R Shrivathsan", Role: "ML Model Developer", Description: "Built the suitability model from data preprocessing through training and evaluation."},
		{Name: "Karthik B", Role: "Solar Energy GIS Specialist", Description: "Expert in GIS mapping and solar radiation modeling for optimal site selection."},
		{Name: "Kartik J H", Role: "Solar Data Analyst", Description: "Data analytics to provide accurate insights for solar site selection and the features needed for it."},
	},
	Contact: ContactInfo{
		AddressLines: []string{"123 Solar Way", "Bengaluru, Karnataka 560001", "India"},
		Emails:       []string{"info@solarsite.com", "support@solarsite.com", "partners@solarsite.com"},
		Phones:       []string{"Main Office: +91 98765 43210", "Customer Support: +91 98765 43211"},
		Hours:        "Monday-Friday, 9am-6pm IST",
	},
}
