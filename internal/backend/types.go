// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

// =============================================================================
// CHAT MODES
// =============================================================================

// Mode selects the backend's answering style.
type Mode string

const (
	ModeNormal     Mode = "normal"
	ModeExamPrep   Mode = "exam_prep"
	ModePractice   Mode = "practice"
	ModeVocabulary Mode = "vocabulary"
)

// Modes lists all chat modes in cycle order.
var Modes = []Mode{ModeNormal, ModeExamPrep, ModePractice, ModeVocabulary}

// Valid reports whether the mode is one the backend accepts.
func (m Mode) Valid() bool {
	switch m {
	case ModeNormal, ModeExamPrep, ModePractice, ModeVocabulary:
		return true
	}
	return false
}

// Label returns the display name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeExamPrep:
		return "Exam prep"
	case ModePractice:
		return "Practice"
	case ModeVocabulary:
		return "Vocabulary"
	default:
		return "Normal"
	}
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// ChatResult is the outcome of a successful chat call.
type ChatResult struct {
	Response string
}

// Document describes an uploaded document as the backend reports it.
// The backend is the authority; the client only caches these.
type Document struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	UploadTime   string `json:"upload_time"`
	ChunkCount   int    `json:"chunk_count"`
}

// UploadResult is the outcome of a document upload.
type UploadResult struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`
}

// QuizQuestion is one generated question. Options is empty for
// free-text question types.
type QuizQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizParams are the generation parameters.
type QuizParams struct {
	Topic        string
	NumQuestions int
	Difficulty   string
	QuizType     string
	UseDocuments bool
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type chatRequest struct {
	Message      string `json:"message"`
	UseDocuments bool   `json:"use_documents"`
	Mode         string `json:"mode"`
}

type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

type listDocumentsResponse struct {
	Docs []Document `json:"docs"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type quizRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	QuizType     string `json:"quiz_type"`
	UseDocuments bool   `json:"use_documents"`
}

type quizResponse struct {
	Success bool `json:"success"`
	Quiz    struct {
		Questions []QuizQuestion `json:"questions"`
	} `json:"quiz"`
}

type sttResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

type pinRequest struct {
	Pin string `json:"pin"`
}

type pinExistsResponse struct {
	Exists bool `json:"exists"`
}

type pinVerifyResponse struct {
	Verified bool `json:"verified"`
}
