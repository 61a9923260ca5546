package streaming

// InfoResponse is the API representation of transfer planning info.
type InfoResponse struct {
	FileID                int64    `json:"fileId"`
	Key                   string   `json:"key"`
	ContentType           string   `json:"contentType"`
	SizeBytes             int64    `json:"sizeBytes"`
	SupportsRangeRequests bool     `json:"supportsRangeRequests"`
	Protocols             []string `json:"protocols"`
	RecommendedChunkSize  int      `json:"recommendedChunkSize"`
}
