package openchargemap

// poi - точка зарядки в ответе Open Charge Map (compact=true)
type poi struct {
	ID                   int64        `json:"ID"`
	UUID                 string       `json:"UUID"`
	AddressInfo          addressInfo  `json:"AddressInfo"`
	OperatorInfo         *titled      `json:"OperatorInfo"`
	StatusType           *statusType  `json:"StatusType"`
	UsageType            *usageType   `json:"UsageType"`
	UsageCost            string       `json:"UsageCost"`
	Connections          []connection `json:"Connections"`
	NumberOfPoints       *int         `json:"NumberOfPoints"`
	DateLastStatusUpdate string       `json:"DateLastStatusUpdate"`
}

type addressInfo struct {
	Title        string  `json:"Title"`
	AddressLine1 string  `json:"AddressLine1"`
	Town         string  `json:"Town"`
	Latitude     float64 `json:"Latitude"`
	Longitude    float64 `json:"Longitude"`
}

type titled struct {
	ID    int64  `json:"ID"`
	Title string `json:"Title"`
}

type statusType struct {
	ID            int64  `json:"ID"`
	Title         string `json:"Title"`
	IsOperational *bool  `json:"IsOperational"`
}

type usageType struct {
	Title                string `json:"Title"`
	IsPayAtLocation      *bool  `json:"IsPayAtLocation"`
	IsMembershipRequired *bool  `json:"IsMembershipRequired"`
}

type connection struct {
	ConnectionType *titled  `json:"ConnectionType"`
	PowerKW        *float64 `json:"PowerKW"`
	Quantity       *int     `json:"Quantity"`
}
