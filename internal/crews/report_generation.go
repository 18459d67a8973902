package crews

import (
	"context"

	"github.com/armaanamatya/HackUTD2025/internal/agent/domain"
)

const marketAnalysisTaskDescription = `Conduct comprehensive market analysis for the real estate investment or development project.
Focus on gathering data that supports strategic planning and decision-making.

Your analysis should include:
- Target market demographics and trends
- Competitive landscape and market saturation
- Economic indicators affecting the real estate market
- Zoning laws and development regulations
- Infrastructure and future development plans
- Market demand projections and growth potential
- Financing options and market conditions

Tool usage guidelines:
- Research local market reports and economic data
- Look for development patterns and upcoming projects
- Analyze regulatory environment and permitting requirements
- Gather data on market demand and supply dynamics

Project description: {project_description}`

const answerTaskDescription = `Create a concise, comprehensive answer based on the market analysis and search data.
Synthesize all relevant information from the research into a direct, actionable response.

Your answer should be:
- Concise but complete, containing all relevant information
- Well-structured with clear sections
- Focused on key insights and actionable recommendations
- Free of unnecessary verbosity while maintaining thoroughness
- Based on data from multiple sources (market analysis, web searches)

Structure your answer as:
- Key Findings - Most important insights from the research
- Market Summary - Essential market data and trends
- Recommendations - Clear, actionable next steps
- Supporting Data - Relevant metrics and sources

Prioritize clarity and usefulness over length. Every sentence should add value.`

// ReportGeneration builds the project-analysis crew for development and
// investment project descriptions.
func (f *Factory) ReportGeneration() (*domain.Crew, error) {
	analysisAgent := newPropertyInsightsAgent(f.routerTools())
	answerAgent := newReportGenerationAgent(f.registry.FileTools())

	analysisTask := &domain.Task{
		Name:           "market_analysis",
		Description:    marketAnalysisTaskDescription,
		ExpectedOutput: "Comprehensive market analysis with strategic insights for real estate project planning",
		Agent:          analysisAgent,
	}
	answerTask := &domain.Task{
		Name:           "write_answer",
		Description:    answerTaskDescription,
		ExpectedOutput: "Concise, comprehensive answer containing all relevant information from searches and analysis",
		Agent:          answerAgent,
		Context:        []*domain.Task{analysisTask},
	}

	return f.newCrew("report-generation", analysisTask, answerTask)
}

// RunReportGeneration executes the report crew for a project description.
func (f *Factory) RunReportGeneration(ctx context.Context, projectDescription string) (string, error) {
	crew, err := f.ReportGeneration()
	return run(ctx, crew, err, map[string]string{"project_description": projectDescription})
}
