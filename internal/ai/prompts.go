package ai

// Search generation prompts
const (
	// SearchArticlePrompt requests exactly one article for a search query.
	// Placeholders: query, category list.
	SearchArticlePrompt = `You are an expert news journalist. A user searched for: "%s"

Generate 1 detailed, factual, unbiased news article related to this search topic.

For the article, provide:
- title: A professional, unique news headline (8-15 words)
- category: One of [%s]
- summaryPoints: An array of 5-6 concise bullet points (each 10-20 words)
- fullContent: A detailed 300-500 word article structured with "## Section Title" markdown headers. Cover: background, current developments, expert analysis, and future outlook.
- tags: An array of 4-6 relevant keywords

Return as a JSON array:
[{
  "title": "...",
  "category": "...",
  "summaryPoints": ["...", "...", "...", "...", "...", "..."],
  "fullContent": "...",
  "tags": ["...", "...", "...", "..."]
}]

Rules:
- Focus on REAL, current events and facts related to the search query
- Be factual and unbiased - present all sides
- Use ## headers to structure fullContent into readable sections
- Do NOT fabricate specific statistics or quotes`
)

// Front-page batch generation prompts
const (
	// FrontPageBatchPrompt requests one fully structured article per topic.
	// Placeholders: numbered topic list.
	FrontPageBatchPrompt = `You are an expert news journalist. Generate detailed, factual, unbiased news articles for these trending topics:

%s

For EACH topic, generate:
- title: A professional news headline (8-15 words)
- category: The category from the topic
- summaryPoints: An array of 6-8 concise bullet points (each 10-20 words) covering key facts
- fullContent: A VERY detailed 500-800 word article with proper structure. Break it into sections using "## Section Title" markdown headers. Cover: background/context, current developments, key stakeholders and their positions, data/statistics, expert opinions, impact on ordinary people, and future outlook.
- tags: An array of 4-6 relevant tags/keywords

Return as a JSON array:
[{
  "title": "...",
  "category": "...",
  "summaryPoints": ["point1", "point2", "point3", "point4", "point5", "point6"],
  "fullContent": "...",
  "tags": ["tag1", "tag2", "tag3", "tag4"]
}]

Rules:
- Each article must have a UNIQUE title - no duplicates
- Be factual and unbiased - present all sides
- Include recent context, background history, and implications
- Use ## headers to structure the fullContent into readable sections
- Write fullContent that is AT LEAST 500 words - readers want depth
- Do NOT fabricate specific statistics or quotes`
)

// Trending refresh prompts
const (
	// TrendingTopicsPrompt requests 10 topics per category in one call.
	// Placeholders: region, category list, region.
	TrendingTopicsPrompt = `You are a news analyst specializing in current affairs in %s. Generate EXACTLY 10 currently trending topics for EACH of the following categories:

Categories: %s

For EACH category, provide exactly 10 trending topics. For each topic:
- title: A concise trending topic title (3-8 words)
- description: One sentence description (max 20 words)
- category: The category it belongs to (must be one of the listed categories)
- trendScore: A number 1-100 indicating how trending it is
- source: Either "Google Trends", "Social Media", "News Outlets", or "Public Interest"

Return as a flat JSON array (all topics in one array):
[{"title": "", "description": "", "category": "", "trendScore": 0, "source": ""}]

CRITICAL RULES:
- Generate EXACTLY 10 topics per category
- Each topic must have a UNIQUE title - no duplicates across any category
- Focus on CURRENT and REAL trending topics in %s
- Be specific - avoid vague titles like "Latest News"
- Cover diverse angles within each category
- Include topics that people are actually searching for`
)

// Fact-check prompts
const (
	// FactCheckPrompt requests a structured verdict for one article.
	// Placeholders: title, category, numbered claim list.
	FactCheckPrompt = `You are an expert fact-checker and journalist working for a credible news verification agency. Your job is to rigorously fact-check news articles.

ARTICLE TO FACT-CHECK:
Title: "%s"
Category: %s
Key Claims:
%s

INSTRUCTIONS:
Analyze each claim in the article and verify it against known facts. For each major claim:
1. Identify the specific claim
2. Assess whether it is TRUE, PARTIALLY TRUE, MISLEADING, UNVERIFIED, or FALSE
3. Provide a brief explanation of your verification
4. Cite what credible sources would confirm or deny this claim

Then provide an overall assessment.

Return your response as a JSON object:
{
  "overallVerdict": "TRUE" | "MOSTLY TRUE" | "PARTIALLY TRUE" | "MISLEADING" | "MOSTLY FALSE" | "FALSE" | "UNVERIFIED",
  "truthPercentage": <number 0-100>,
  "overallSummary": "<2-3 sentence summary of the fact-check>",
  "claimVerifications": [
    {
      "claim": "<the specific claim being checked>",
      "verdict": "TRUE" | "PARTIALLY TRUE" | "MISLEADING" | "UNVERIFIED" | "FALSE",
      "explanation": "<1-2 sentence explanation>",
      "sources": ["<source name 1>", "<source name 2>"]
    }
  ],
  "sources": [
    {
      "name": "<source name>",
      "type": "Government Data" | "News Outlet" | "Research Paper" | "Official Statement" | "Expert Analysis" | "Public Records",
      "reliability": "High" | "Medium" | "Low"
    }
  ],
  "redFlags": ["<any red flags or concerns about the article>"],
  "context": "<additional context that helps understand the claims better>"
}

IMPORTANT RULES:
- Be rigorous and honest in your assessment
- If claims are about future events or predictions, mark them as "UNVERIFIED"
- If claims are broadly accurate but lack specific verifiable details, mark as "PARTIALLY TRUE"
- Always cite realistic, credible sources
- For AI-generated articles, note that the content is AI-generated and facts should be independently verified
- Do NOT fabricate specific URLs - just cite source organization names
- Be balanced and fair in your assessment`
)
