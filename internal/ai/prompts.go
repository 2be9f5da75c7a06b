package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt pairs for each artifact kind. Both providers share these so a
// provider swap never changes what the model is asked for.

type Prompt struct {
	System string
	User   string
}

func PromptExtractJD(jdText string) Prompt {
	return Prompt{
		System: "You are an expert at analyzing job descriptions. Extract structured information and return ONLY valid JSON matching the requested schema.",
		User: fmt.Sprintf(`Extract structured information from this job description:

%s

Return a JSON object with these exact fields:
- role_title: string
- seniority: one of "intern", "junior", "mid", "senior"
- must_have_skills: array of strings
- nice_to_have_skills: array of strings
- languages: array of strings (programming languages)
- frameworks: array of strings
- tools: array of strings
- responsibilities: array of strings
- keywords: array of strings (ATS keywords)
- domain: string (e.g., "telecom", "fintech", "web", "mobile")

Return ONLY the JSON, no markdown, no explanation.`, jdText),
	}
}

func PromptParseResume(resumeText string) Prompt {
	return Prompt{
		System: "You are an expert at parsing resumes. Extract structured information and return ONLY valid JSON matching the requested schema.",
		User: fmt.Sprintf(`Parse this resume text into structured format:

%s

Return a JSON object with these exact fields:
- identity: object with name, email, city, platforms (object with linkedin, github, portfolio, etc.)
- skills: object mapping skill groups (languages, frameworks, tools, databases) to arrays of strings
- experience: array of objects with company, role, dates, bullets (array of strings)
- projects: array of objects with title, tech_stack (array), bullets (array of strings)
- certifications: array of strings
- extracurriculars: array of strings
- education: array of objects with institution, degree, dates

Return ONLY the JSON, no markdown, no explanation.`, resumeText),
	}
}

func PromptEvidenceMap(jdExtract, resumeParse json.RawMessage) Prompt {
	return Prompt{
		System: "You are an expert at matching job requirements to resume evidence. Create a detailed evidence map.",
		User: fmt.Sprintf(`Match the job requirements to concrete resume evidence.

Job requirements:
%s

Parsed resume:
%s

Return a JSON object with:
- evidence: object mapping each requirement keyword to an array of citations, each citation an object with section (one of "experience", "projects", "skills"), index (0-based position in that section) and optional bullet_index
- missing: array of must-have keywords with no resume evidence

Cite only locations that actually exist in the resume. Return ONLY the JSON.`, jdExtract, resumeParse),
	}
}

func PromptScoreBreakdown(jdExtract, resumeParse, evidenceMap json.RawMessage) Prompt {
	return Prompt{
		System: "You are an expert ATS scoring system. Provide a detailed, actionable scoring breakdown.",
		User: fmt.Sprintf(`Score this resume against the job requirements.

Job requirements:
%s

Parsed resume:
%s

Evidence map:
%s

Return a JSON object with:
- keyword_coverage, alignment, evidence_strength, bullet_quality, formatting: each an object with score (0-100), explanation, details
- final_score: weighted integer 0-100
- top_fixes: array of objects, each with fix (string) and impact (string), ranked by expected score impact

Return ONLY the JSON.`, jdExtract, resumeParse, evidenceMap),
	}
}

func PromptRewritePlan(scoreBreakdown, evidenceMap json.RawMessage) Prompt {
	return Prompt{
		System: "You are an expert resume strategist. Turn scoring gaps into a prioritized rewrite plan.",
		User: fmt.Sprintf(`Create a rewrite plan from this scoring breakdown and evidence map.

Score breakdown:
%s

Evidence map:
%s

Return a JSON object with:
- prioritized_edits: array of objects with target (section/bullet), change (what to rewrite) and reason
- expected_impact: string summarizing the score improvement expected

Return ONLY the JSON.`, scoreBreakdown, evidenceMap),
	}
}

func PromptRewriteBullet(bullet string, constraints, bulletContext json.RawMessage) Prompt {
	return Prompt{
		System: "You are an expert at rewriting resume bullets. Follow constraints strictly. Never hallucinate metrics.",
		User: fmt.Sprintf(`Rewrite this resume bullet:

%s

Constraints:
%s

Context:
%s

Return ONLY the rewritten bullet text, nothing else. Do not invent numbers or facts not present in the context.`, bullet, constraints, bulletContext),
	}
}

func PromptOptimizeResume(jdExtract, resumeParse, scoreBreakdown, evidenceMap json.RawMessage) Prompt {
	user := fmt.Sprintf(`Optimize this parsed resume for the job below. Rewrite and reorder bullets for relevance and surface matching keywords, but do not invent employers, projects, degrees, certifications or metrics that are not in the source resume.

Job requirements:
%s

Parsed resume:
%s
`, jdExtract, resumeParse)
	if len(scoreBreakdown) > 0 {
		user += fmt.Sprintf("\nScore breakdown:\n%s\n", scoreBreakdown)
	}
	if len(evidenceMap) > 0 {
		user += fmt.Sprintf("\nEvidence map:\n%s\n", evidenceMap)
	}
	user += "\nReturn ONLY a JSON object with the same shape as the parsed resume."
	return Prompt{
		System: "You are an expert resume writer. You tailor resumes to specific jobs without fabricating anything.",
		User:   user,
	}
}

func PromptCoverLetter(jdExtract, resumeParse json.RawMessage, tone string) Prompt {
	if strings.TrimSpace(tone) == "" {
		tone = "professional"
	}
	return Prompt{
		System: "You are an expert at writing cover letters. Write a compelling, role-specific cover letter.",
		User: fmt.Sprintf(`Write a cover letter for this job using the candidate's real background.

Job requirements:
%s

Candidate resume:
%s

Tone: %s

Cite only experience that appears in the resume. Return ONLY the letter text, no JSON, no markdown headers.`, jdExtract, resumeParse, tone),
	}
}

func PromptSuggestProjects(jdExtract, resumeParse json.RawMessage) Prompt {
	return Prompt{
		System: "You are an expert at suggesting relevant projects for CS students based on job requirements.",
		User: fmt.Sprintf(`Suggest 3-5 portfolio projects that would close the gap between this resume and this job.

Job requirements:
%s

Parsed resume:
%s

Return ONLY a JSON array of objects with title, description, tech_stack (array of strings) and skills_demonstrated (array of strings).`, jdExtract, resumeParse),
	}
}

func PromptRoadmap(jdExtract, resumeParse json.RawMessage, timelineWeeks int) Prompt {
	if timelineWeeks <= 0 {
		timelineWeeks = 4
	}
	return Prompt{
		System: "You are an expert at creating learning roadmaps for career preparation.",
		User: fmt.Sprintf(`Create a %d-week preparation roadmap targeting this job, prioritizing the candidate's missing skills.

Job requirements:
%s

Parsed resume:
%s

Return a JSON object with:
- timeline_weeks: integer
- weeks: array of objects with week_number, focus_areas (array), tasks (array of objects with title, description, resources, estimated_hours) and milestones (array)

Return ONLY the JSON.`, timelineWeeks, jdExtract, resumeParse),
	}
}

func PromptInterviewQuestion(jdExtract json.RawMessage, mode string, previousQuestions []string) Prompt {
	user := fmt.Sprintf(`Generate one %s interview question tailored to this job.

Job requirements:
%s
`, mode, jdExtract)
	if len(previousQuestions) > 0 {
		user += fmt.Sprintf("\nDo not repeat any of these already-asked questions:\n- %s\n", strings.Join(previousQuestions, "\n- "))
	}
	user += `
Return a JSON object with:
- question: string
- type: string (behavioral, technical, situational)
- what_interviewer_looks_for: string
- suggested_answer_structure: string

Return ONLY the JSON.`
	return Prompt{
		System: "You are an expert at creating interview questions tailored to job requirements.",
		User:   user,
	}
}

func PromptStarScore(question, response string, jdExtract json.RawMessage) Prompt {
	return Prompt{
		System: "You are an expert at evaluating STAR interview responses using a rubric.",
		User: fmt.Sprintf(`Score this interview answer with the STAR rubric.

Question: %s

Answer:
%s

Job requirements:
%s

Return a JSON object with situation_clarity, task_clarity, action_specificity, result_impact, relevance_to_role (each 0-10), total_score (0-50), strengths (array), improvements (array) and overall_feedback.

Return ONLY the JSON.`, question, response, jdExtract),
	}
}

func PromptCodingProblem(jdExtract json.RawMessage, difficulty string) Prompt {
	if strings.TrimSpace(difficulty) == "" {
		difficulty = "medium"
	}
	return Prompt{
		System: "You are an expert at creating original coding interview problems. Never copy existing problems.",
		User: fmt.Sprintf(`Create one original %s coding problem themed around this job's domain and skills.

Job requirements:
%s

Return a JSON object with title, topic, difficulty, prompt, examples (array of objects with input, output, explanation), constraints (array), test_cases (array of objects with input, expected_output) and hints (array).

Return ONLY the JSON.`, difficulty, jdExtract),
	}
}

func PromptCodeReview(problem json.RawMessage, code string, testResults json.RawMessage) Prompt {
	user := fmt.Sprintf(`Review this solution.

Problem:
%s

Code:
%s
`, problem, code)
	if len(testResults) > 0 {
		user += fmt.Sprintf("\nTest results:\n%s\n", testResults)
	}
	user += `
Return a JSON object with correctness, edge_cases_handled (boolean), time_complexity, space_complexity, feedback and suggestions (array).

Return ONLY the JSON.`
	return Prompt{
		System: "You are an expert at reviewing code solutions for correctness, edge cases, and complexity.",
		User:   user,
	}
}
