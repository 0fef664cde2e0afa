package drivebot

import (
	"encoding/json"
	"fmt"
	"strings"

	"driveup-workers/internal/common/genai"
)

// Table is the denormalised view DriveBot questions are answered from.
const Table = "car_drivebot"

const (
	translatorSystemPrompt = "You are DriveBot, an AI that answers car-related questions using SQL on a table called CAR_DRIVEBOT."
	summarizerSystemPrompt = "You are a data summarization assistant. Convert structured data into natural language summaries using predefined domain knowledge."
)

type example struct {
	question string
	sql      string
}

// examples steer the model towards the column naming of CAR_DRIVEBOT.
var examples = []example{
	{"Which Tata cars have a sunroof?",
		"SELECT brand, model, variant FROM CAR_DRIVEBOT\nWHERE brand ILIKE '%Tata%' AND comfort_and_convenience_sunroof IS NOT NULL;"},
	{"Show me SUVs with 6 airbags.",
		"SELECT brand, model, variant, safety_and_security_no_of_airbags FROM CAR_DRIVEBOT\nWHERE body_type = 'SUV' AND safety_and_security_no_of_airbags >= 6;"},
	{"List all electric cars with autonomous parking.",
		"SELECT brand, model, variant FROM CAR_DRIVEBOT\nWHERE performance_and_fuel_economy_fuel_type = 'Electric(Battery)' AND comfort_and_convenience_autonomous_parking IS NOT NULL;"},
	{"What is the price of Tata Nexon?",
		"SELECT brand, model, variant, CONCAT('₹', TO_CHAR(car_price, '99,99,99,999')) AS price\nFROM CAR_DRIVEBOT\nWHERE model ILIKE '%Nexon%';"},
	{"Which Hyundai cars have ADAS?",
		"SELECT brand, model, variant, adas_feature_automatic_emergency_braking, adas_feature_lane_departure_warning\nFROM CAR_DRIVEBOT\nWHERE brand ILIKE '%Hyundai%' AND (\n    adas_feature_automatic_emergency_braking IS NOT NULL OR\n    adas_feature_lane_departure_warning IS NOT NULL\n);"},
	{"Show me cars with petrol engines.",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE performance_and_fuel_economy_fuel_type ILIKE '%Petrol%';"},
	{"List cars with more than 100 bhp power.",
		"SELECT brand, model, variant, engine_and_transmission_10000_power\nFROM CAR_DRIVEBOT\nWHERE engine_and_transmission_10000_power ~ '[1-9][0-9]{2,}bhp';"},
	{"Which cars have automatic transmission?",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE engine_and_transmission_transmission ILIKE '%Automatic%';"},
	{"Show cars with AWD drive type.",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE engine_and_transmission_drive_type = 'AWD';"},
	{"Which cars have 6-speed gearbox?",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE engine_and_transmission_gearbox ILIKE '%6-Speed%';"},
	{"Which cars offer Android Auto or Apple CarPlay?",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE comfort_and_convenience_connectivity ILIKE '%Android Auto%' OR comfort_and_convenience_connectivity ILIKE '%Apple CarPlay%';"},
	{"Show cars with cruise control.",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE comfort_and_convenience_cruise_control ILIKE '%Yes%';"},
	{"Which cars have hill assist?",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE safety_and_security_hill_assist ILIKE '%Yes%';"},
	{"Which cars have a panoramic sunroof?",
		"SELECT brand, model, variant\nFROM CAR_DRIVEBOT\nWHERE comfort_and_convenience_sunroof ILIKE '%Panoramic%';"},
	{"List EVs with range above 400 km.",
		"SELECT brand, model, variant, motor_range\nFROM CAR_DRIVEBOT\nWHERE motor_range IS NOT NULL\n  AND CAST(REGEXP_REPLACE(motor_range, '[^0-9]', '', 'g') AS INTEGER) >= 400;"},
	{"List cars with mileage above 20 kmpl.",
		"SELECT brand, model, variant, performance_and_fuel_economy_mileage_arai\nFROM CAR_DRIVEBOT\nWHERE performance_and_fuel_economy_mileage_arai IS NOT NULL\n  AND CAST(REGEXP_REPLACE(performance_and_fuel_economy_mileage_arai, '[^0-9.]', '', 'g') AS DECIMAL) > 20;"},
}

func translationPrompt(question string) string {
	var parts []string

	parts = append(parts, `You are an SQL expert. Your task is to generate valid SQL queries for the "CAR_DRIVEBOT" table.`)
	parts = append(parts, "\n### Table Details:")
	parts = append(parts, "- The table is called **CAR_DRIVEBOT**.")
	parts = append(parts, "- You must only modify the **SELECT** and **WHERE** clauses.")
	parts = append(parts, "- Do NOT create columns that don't exist.")
	parts = append(parts, `- Do NOT assume table names other than "CAR_DRIVEBOT".`)
	parts = append(parts, "- Generate exactly one read-only SELECT statement.")
	parts = append(parts, "- Show prices only when asked for specifically. Prices are in Indian Rupees (₹) with Indian digit grouping (e.g., ₹10,50,000 instead of ₹1050000).")
	parts = append(parts, "- Do NOT use '=' when checking brand or model. Always use ILIKE with wildcards, like: WHERE model ILIKE '%Nexon%'")

	parts = append(parts, "\n### Example Queries:")
	for _, ex := range examples {
		parts = append(parts, fmt.Sprintf("\n**User Question:** %q", ex.question))
		parts = append(parts, "**SQL Query:**")
		parts = append(parts, "```sql\n"+ex.sql+"\n```")
	}

	parts = append(parts, "\n### User Question:")
	parts = append(parts, fmt.Sprintf("%q", question))
	parts = append(parts, "\nGenerate a complete SQL query using the above examples as a reference.")
	parts = append(parts, "Ensure the output is a valid SQL query for the CAR_DRIVEBOT table.")

	return strings.Join(parts, "\n")
}

// TranslationMessages builds the chat for one question. Blank history turns
// are dropped.
func TranslationMessages(question string, history []genai.Message) []genai.Message {
	messages := make([]genai.Message, 0, len(history)+2)
	messages = append(messages, genai.Message{Role: genai.RoleSystem, Content: translatorSystemPrompt})
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		messages = append(messages, m)
	}
	return append(messages, genai.Message{Role: genai.RoleUser, Content: translationPrompt(question)})
}

func summaryPrompt(rows []map[string]interface{}) (string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode rows: %w", err)
	}

	var parts []string
	parts = append(parts, "You are DriveBot, an AI assistant helping users explore car features, models, and recommendations in a friendly and conversational way.")
	parts = append(parts, "\n### Guidelines:")
	parts = append(parts, "- Speak as if you're talking to a curious car enthusiast.")
	parts = append(parts, `- Do NOT use raw column names like "brand", "model", or "variant". Say "car brand", "car model", or just the car name.`)
	parts = append(parts, "- If the query results are empty, respond politely and encourage the user to rephrase their question.")
	parts = append(parts, `- If the result is a count, respond with excitement (e.g., "Awesome! There are 12 cars with that feature.").`)
	parts = append(parts, "- Do NOT repeat the user's question.")
	parts = append(parts, "- Keep the tone friendly and light. Keep it short and clear.")
	parts = append(parts, "\n### Example Outputs:")
	parts = append(parts, `- "There are 8 Hyundai SUVs that come with 6 airbags. Great pick for safety!"`)
	parts = append(parts, `- "Unfortunately, I couldn't find any Volkswagen sedans with a panoramic sunroof. Want to try a different brand or type?"`)
	parts = append(parts, "\nQuery Results:")
	parts = append(parts, string(data))
	parts = append(parts, "\nReturn only the final conversational answer. No explanations or raw data tables.")

	return strings.Join(parts, "\n"), nil
}

// SummaryMessages builds the chat that turns query rows into an answer.
func SummaryMessages(rows []map[string]interface{}) ([]genai.Message, error) {
	prompt, err := summaryPrompt(rows)
	if err != nil {
		return nil, err
	}
	return []genai.Message{
		{Role: genai.RoleSystem, Content: summarizerSystemPrompt},
		{Role: genai.RoleUser, Content: prompt},
	}, nil
}

// StripCodeFences removes Markdown code fences the model wraps SQL in.
func StripCodeFences(reply string) string {
	reply = strings.ReplaceAll(reply, "```sql", "")
	reply = strings.ReplaceAll(reply, "```SQL", "")
	reply = strings.ReplaceAll(reply, "```", "")
	return strings.TrimSpace(reply)
}
