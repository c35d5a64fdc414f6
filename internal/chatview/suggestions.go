package chatview

// Suggestion is a starter prompt offered while the conversation is empty.
type Suggestion struct {
	Title string
	Desc  string
}

// Prompt is the text placed in the input when the suggestion is chosen.
func (s Suggestion) Prompt() string {
	return s.Title + ": " + s.Desc
}

var Suggestions = []Suggestion{
	{Title: "Buat kode React", Desc: "Bantu aku membuat komponen dashboard"},
	{Title: "Jelaskan konsep", Desc: "Apa itu Server-Sent Events (SSE)?"},
	{Title: "Debug error", Desc: "Tolong perbaiki error Tailwind CSS ini"},
	{Title: "Buat cerita", Desc: "Tulis cerita sci-fi pendek tentang AI"},
}

// SuggestionPrompt returns the prompt of suggestion i. It never sends anything.
func SuggestionPrompt(i int) (string, bool) {
	if i < 0 || i >= len(Suggestions) {
		return "", false
	}
	return Suggestions[i].Prompt(), true
}
