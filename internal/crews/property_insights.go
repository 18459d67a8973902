package crews

import (
	"context"

	"github.com/armaanamatya/HackUTD2025/internal/agent/domain"
)

const insightsTaskDescription = `Gather comprehensive property insights for the given query.
Focus on collecting market data, property history, and investment analysis for real estate properties.

Your analysis should include:
- Property value history and current market price
- Comparable properties in the area (comps analysis)
- Neighborhood market trends and growth patterns
- Local economic factors affecting property values
- School districts, amenities, and location advantages
- Investment potential and rental yield estimates
- Market risks and opportunities

Tool usage guidelines:
- Use web search tools to find current market data and property information
- Research Zillow, Realtor.com, and other real estate platforms
- Look for recent sales, property tax records, and market reports
- Gather economic data for the local area

Query: {topic}`

const insightsReportTaskDescription = `Transform the property insights into a professional real estate analysis report.
Create a well-structured, actionable report that provides clear investment guidance.

Your report should include:
1. Executive Summary - Key findings and investment recommendation
2. Property Overview - Basic details and current status
3. Market Analysis - Local trends, comps, and pricing analysis
4. Financial Analysis - Investment potential, cash flow projections, ROI estimates
5. Risk Assessment - Potential challenges and market risks
6. Recommendations - Clear action steps and investment advice

Make the report professional yet accessible, with specific data points and actionable insights.`

// PropertyInsights builds the deep-research crew: an insights specialist
// gathers market data, a report specialist turns it into analysis.
func (f *Factory) PropertyInsights() (*domain.Crew, error) {
	insightsAgent := newPropertyInsightsAgent(f.routerTools())
	reportAgent := newReportGenerationAgent(f.registry.FileTools())

	insightsTask := &domain.Task{
		Name:           "gather_insights",
		Description:    insightsTaskDescription,
		ExpectedOutput: "Comprehensive property market insights including current values, historical trends, comps analysis, and investment potential",
		Agent:          insightsAgent,
	}
	reportTask := &domain.Task{
		Name:           "write_report",
		Description:    insightsReportTaskDescription,
		ExpectedOutput: "A comprehensive real estate investment report with executive summary, market analysis, financial projections, and clear recommendations",
		Agent:          reportAgent,
		Context:        []*domain.Task{insightsTask},
	}

	return f.newCrew("property-insights", insightsTask, reportTask)
}

// RunInsightsAnalysis executes the property insights crew for a topic.
func (f *Factory) RunInsightsAnalysis(ctx context.Context, topic string) (string, error) {
	crew, err := f.PropertyInsights()
	return run(ctx, crew, err, map[string]string{"topic": topic})
}
