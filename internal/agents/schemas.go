package agents

import "github.com/arpankumarde/neevtrace/internal/agent"

var (
	estimateProp = agent.Property{
		Name: "estimate", Type: "number",
		Description: "The calculated CO2 equivalent estimate as a numeric value.",
	}
	unitProp = agent.Property{
		Name: "unit", Type: "string",
		Description: "The unit of measurement (e.g., 'kg CO2e', 't CO2e').",
	}
)

var CO2Schema = &agent.Schema{
	Name:       "co2_estimate",
	Properties: []agent.Property{estimateProp, unitProp},
}

var RouteSchema = &agent.Schema{
	Name: "route_optimization",
	Properties: []agent.Property{
		{Name: "pros", Type: "string", Description: "Advantages of the proposed route, such as reduced emissions, cost savings or improved efficiency."},
		{Name: "cons", Type: "string", Description: "Disadvantages of the proposed route, such as longer travel time, higher cost or logistical challenges."},
		estimateProp,
		unitProp,
	},
}

var RecommendationSchema = &agent.Schema{
	Name: "logistic_recommendation",
	Properties: []agent.Property{
		{Name: "shortestBidId", Type: "string", Description: "The ID of the bid with the shortest route."},
		{Name: "shortestBidReason", Type: "string", Description: "Why this bid was chosen as the shortest route."},
		{Name: "optimalBidId", Type: "string", Description: "The ID of the most optimal bid considering all factors."},
		{Name: "optimalBidReason", Type: "string", Description: "Why this bid was selected as the most optimal."},
	},
}
