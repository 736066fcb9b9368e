package dto

type SearchRequest struct {
	Query string `json:"query"`
}

type PageSizeRequest struct {
	PageSize int `json:"pageSize"`
}

type ConnectionRequest struct {
	BaseURL string `json:"baseUrl"`
}
