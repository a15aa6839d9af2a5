package mcp

// --- Tool Arguments ---

type InsertVectorArgs struct {
	ID     string    `json:"id,omitempty" jsonschema:"Identifier for the vector. A random UUID is assigned when omitted"`
	Vector []float32 `json:"vector" jsonschema:"The vector components"`
}

type InsertVectorResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SearchVectorsArgs struct {
	Vector []float32 `json:"vector" jsonschema:"The query vector"`
	K      int       `json:"k,omitempty" jsonschema:"Number of nearest neighbours to return (default 1)"`
}

type SearchHit struct {
	ID       string  `json:"id"`
	Distance float32 `json:"distance"`
}

type SearchVectorsResult struct {
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}

type VectorDistanceArgs struct {
	A      []float32 `json:"a" jsonschema:"First vector"`
	B      []float32 `json:"b" jsonschema:"Second vector, same length as a"`
	Metric string    `json:"metric,omitempty" jsonschema:"euclidean (default), squared_euclidean or cosine"`
}

type VectorDistanceResult struct {
	Distance float32 `json:"distance"`
	Metric   string  `json:"metric"`
}

type GetVectorArgs struct {
	ID string `json:"id" jsonschema:"Identifier of the stored vector"`
}

type GetVectorResult struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}
