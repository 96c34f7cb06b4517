package assistant

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the transcript.
type Message struct {
	ID        int
	Role      Role
	Content   string
	Timestamp string
}

// Prompt is a suggested question shown beside the transcript.
type Prompt struct {
	Title       string
	Description string
}

// Insight is a static highlight card.
type Insight struct {
	Kind  string
	Title string
	Body  string
}

var transcript = []Message{
	{
		ID:        1,
		Role:      RoleUser,
		Content:   "Can you summarize my deals that are in negotiation stage?",
		Timestamp: "10:30 AM",
	},
	{
		ID:   2,
		Role: RoleAssistant,
		Content: "You currently have 3 deals in negotiation stage with a total value of $185,000:\n\n" +
			"1. **Custom Development** - NextGen Tech ($85,000)\n   - Contact: Robert Johnson\n   - Close date: Jan 30, 2024\n   - Probability: 80%\n\n" +
			"2. **Data Analytics Platform** - Smart Systems ($60,000)\n   - Contact: David Kim\n   - Close date: Feb 5, 2024\n   - Probability: 65%\n\n" +
			"3. **Security Audit Service** - Digital Dynamics ($40,000)\n   - Contact: Lisa Park\n   - Close date: Feb 12, 2024\n   - Probability: 70%\n\n" +
			"**Recommendations:**\n" +
			"- Follow up with NextGen Tech this week as the close date is approaching\n" +
			"- Send additional case studies to Smart Systems to increase confidence\n" +
			"- Schedule a final presentation with Digital Dynamics",
		Timestamp: "10:31 AM",
	},
	{
		ID:        3,
		Role:      RoleUser,
		Content:   "What should I prioritize today?",
		Timestamp: "10:35 AM",
	},
	{
		ID:   4,
		Role: RoleAssistant,
		Content: "Based on your current pipeline and tasks, here are your top priorities for today:\n\n" +
			"**🔥 High Priority:**\n" +
			"1. Call NextGen Tech (Robert Johnson) - Deal closes in 2 days\n" +
			"2. Send proposal follow-up to TechStart Inc. - $45K opportunity\n" +
			"3. Prepare contract for Innovation Labs - High-value CRM deal\n\n" +
			"**📋 Medium Priority:**\n" +
			"4. Schedule demo with Global Solutions\n" +
			"5. Research Smart Systems technical requirements\n\n" +
			"**💡 Quick Wins:**\n" +
			"6. Send thank you email to Future Corp\n" +
			"7. Update deal stages in pipeline\n\n" +
			"Focus on the high-priority items first - they have the biggest impact on your monthly targets!",
		Timestamp: "10:36 AM",
	},
}

var prompts = []Prompt{
	{Title: "Summarize recent lead activity", Description: "Get an overview of leads from the past week"},
	{Title: "Recommend follow-up for pending deals", Description: "AI suggestions for next steps on active deals"},
	{Title: "Generate email to re-engage cold lead", Description: "Create personalized outreach templates"},
	{Title: "Schedule optimization suggestions", Description: "Optimize your calendar for maximum productivity"},
}

var insights = []Insight{
	{Kind: "alert", Title: "Deal Alert", Body: "NextGen Tech deal closes in 2 days. Consider scheduling a final call."},
	{Kind: "opportunity", Title: "Opportunity", Body: "3 warm leads haven't been contacted in 5+ days. Perfect time for follow-up."},
	{Kind: "performance", Title: "Performance", Body: "You're 15% ahead of your monthly target. Great work!"},
}

var recentActions = []string{
	"Generated follow-up email template",
	"Analyzed pipeline performance",
	"Identified high-value prospects",
}

// Transcript returns a copy of the fixed conversation.
func Transcript() []Message {
	return append([]Message(nil), transcript...)
}

// Prompts returns a copy of the suggested prompts.
func Prompts() []Prompt {
	return append([]Prompt(nil), prompts...)
}
