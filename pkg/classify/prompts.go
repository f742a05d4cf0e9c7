package classify

const categoriesPrompt = `
# Task Context
You are an assistant that maps a software project description to broad
technology categories used to partition a product search.

# Background Data
Project description: "%s"

# Detailed Task Description & Rules
- Generate 3-5 broad technology categories relevant for building this project.
- Use short lower-case labels.
- Return only the category names.

# Examples
["frontend", "authentication", "database", "deployment", "payments"]

# Output Formatting
Return a JSON object with this structure:
{
  "categories": ["<category1>", "<category2>"]
}
`

const relevantPagesPrompt = `
# Task Context
You are an assistant that picks the documentation pages most relevant to a
software project from a list of candidates.

# Background Data
Project description: "%s"

Candidate URLs:
%s

# Detailed Task Description & Rules
- Pick exactly %d URLs from the candidate list.
- Only return URLs that appear verbatim in the candidate list.
- Prefer pages a developer would read first when adopting the product for
  this specific project.

# Output Formatting
Return a JSON object with this structure:
{
  "urls": ["<url1>", "<url2>"]
}
`
