package gemini

import (
	"encoding/json"
	"testing"
)

// jpegBytes starts with a JFIF header so type detection sees image/jpeg
var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xFF, 0xD9}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R', 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x02, 0x00, 0x00, 0x00}

const substituteJSON = `{
  "matchType": "SUBSTITUTE",
  "productName": "Pacific Organic Low Sodium Chicken Broth",
  "locationDescription": "Second shelf from the top, left of the bouillon cubes",
  "matchScore": 82,
  "reasoning": "Lowest sodium broth visible on the shelf",
  "healthHighlights": ["70% less sodium", "Organic"],
  "nutritionalComparison": "140mg sodium per cup versus 860mg",
  "visualCues": {"color": "Orange", "labelDetails": "Green Low Sodium banner", "shelfPosition": "Eye Level"},
  "boundingBox": {"ymin": 20, "xmin": 10, "ymax": 45, "xmax": 30},
  "detectedItemCount": 14,
  "otherCandidates": [{"name": "Swanson Chicken Broth", "reasonExcluded": "Regular sodium"}],
  "supplementaryItems": [{
    "productName": "Kitchen Basics Unsalted Stock",
    "reasoning": "Richer base",
    "locationDescription": "Bottom shelf, far right",
    "visualCues": {"color": "Blue", "labelDetails": "Chef logo", "shelfPosition": "Bottom Shelf"},
    "boundingBox": {"ymin": 70, "xmin": 80, "ymax": 95, "xmax": 98}
  }]
}`

const wrongAisleJSON = `{
  "matchType": "WRONG_AISLE",
  "productName": "",
  "locationDescription": "This aisle carries cleaning supplies; broth is usually with canned soups",
  "matchScore": 0,
  "reasoning": "No food products visible",
  "healthHighlights": [],
  "nutritionalComparison": "",
  "detectedItemCount": 0,
  "otherCandidates": []
}`

func geminiBody(t *testing.T, text string, chunks ...groundingChunk) []byte {
	t.Helper()
	resp := generateContentResponse{
		Candidates: []candidate{{
			Content:      &content{Role: "model", Parts: []part{{Text: text}}},
			FinishReason: "STOP",
		}},
	}
	if len(chunks) > 0 {
		resp.Candidates[0].GroundingMetadata = &groundingMetadata{GroundingChunks: chunks}
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return data
}
