package summarize

// SummaryPrompt instructs chat models to behave like an extractive-abstractive
// news summarizer, matching the shape of the seq2seq backend's output.
const SummaryPrompt = `Summarize the following passage in three to five plain sentences.

Rules:
- Keep names, numbers and technical terms exactly as written
- Write in the same language as the passage
- Do not add facts, opinions or commentary
- No headings, bullet points or markdown
- The passage may start or end mid-sentence; summarize what is there

Respond with ONLY the summary text.`
