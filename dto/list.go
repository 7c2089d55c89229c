package dto

type ListRequest struct {
	Title string `json:"title" validate:"notblank,max=200"`
}
