package marketplace

import "encoding/xml"

// SOAP envelope plumbing and wire shapes for the N11 seller services.

type n11Envelope struct {
	BodyContent n11BodyContent
}

type n11BodyContent struct {
	Operation string
	Request   any
}

// MarshalXML renders the envelope with the schema namespaces and wraps the
// request in an element named after the operation.
func (e n11Envelope) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	envStart := xml.StartElement{
		Name: xml.Name{Local: "soapenv:Envelope"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:soapenv"}, Value: "http://schemas.xmlsoap.org/soap/envelope/"},
			{Name: xml.Name{Local: "xmlns:sch"}, Value: "http://www.n11.com/ws/schemas"},
		},
	}
	if err := enc.EncodeToken(envStart); err != nil {
		return err
	}
	bodyStart := xml.StartElement{Name: xml.Name{Local: "soapenv:Body"}}
	if err := enc.EncodeToken(bodyStart); err != nil {
		return err
	}
	opStart := xml.StartElement{Name: xml.Name{Local: "sch:" + e.BodyContent.Operation}}
	if err := enc.EncodeElement(e.BodyContent.Request, opStart); err != nil {
		return err
	}
	if err := enc.EncodeToken(bodyStart.End()); err != nil {
		return err
	}
	return enc.EncodeToken(envStart.End())
}

// n11ResponseEnvelope captures the raw body so each operation can decode its
// own response element without a shared schema.
type n11ResponseEnvelope struct {
	Body struct {
		Inner []byte `xml:",innerxml"`
	} `xml:"Body"`
}

type n11AuthBlock struct {
	AppKey    string `xml:"appKey"`
	AppSecret string `xml:"appSecret"`
}

type n11Paging struct {
	CurrentPage int `xml:"currentPage"`
	PageSize    int `xml:"pageSize"`
}

type n11PagingResult struct {
	CurrentPage int   `xml:"currentPage"`
	PageSize    int   `xml:"pageSize"`
	TotalCount  int64 `xml:"totalCount"`
	PageCount   int   `xml:"pageCount"`
}

type n11ResultBlock struct {
	Status       string `xml:"status"`
	ErrorCode    string `xml:"errorCode"`
	ErrorMessage string `xml:"errorMessage"`
}

// n11Result lets the shared call helper inspect the result block of any
// typed response.
type n11Result interface {
	ResultOf() n11ResultBlock
}

type n11OrderListRequest struct {
	Auth   n11AuthBlock `xml:"auth"`
	Status string       `xml:"searchData>status,omitempty"`
	Paging n11Paging    `xml:"pagingData"`
}

type n11OrderListResponse struct {
	Result    n11ResultBlock  `xml:"result"`
	OrderList []n11Order      `xml:"orderList>order"`
	Paging    n11PagingResult `xml:"pagingData"`
}

func (r *n11OrderListResponse) ResultOf() n11ResultBlock { return r.Result }

type n11Order struct {
	ID              string         `xml:"id" json:"id"`
	OrderNumber     string         `xml:"orderNumber" json:"orderNumber"`
	Status          string         `xml:"status" json:"status"`
	CreateDate      string         `xml:"createDate" json:"createDate"`
	TotalAmount     string         `xml:"totalAmount" json:"totalAmount"`
	Buyer           n11Buyer       `xml:"buyer" json:"buyer"`
	ShippingAddress n11Address     `xml:"shippingAddress" json:"shippingAddress"`
	OrderItemList   []n11OrderItem `xml:"orderItemList>orderItem" json:"orderItemList"`
}

type n11Buyer struct {
	FullName string `xml:"fullName" json:"fullName"`
	Email    string `xml:"email" json:"email"`
}

type n11Address struct {
	Address string `xml:"address" json:"address"`
	City    string `xml:"city" json:"city"`
	GSM     string `xml:"gsm" json:"gsm"`
}

type n11OrderItem struct {
	ProductName string `xml:"productName" json:"productName"`
	SellerCode  string `xml:"productSellerCode" json:"productSellerCode"`
	Quantity    string `xml:"quantity" json:"quantity"`
	Price       string `xml:"price" json:"price"`
}

type n11ProductListRequest struct {
	Auth   n11AuthBlock `xml:"auth"`
	Paging n11Paging    `xml:"pagingData"`
}

type n11ProductListResponse struct {
	Result   n11ResultBlock  `xml:"result"`
	Products []n11Product    `xml:"products>product"`
	Paging   n11PagingResult `xml:"pagingData"`
}

func (r *n11ProductListResponse) ResultOf() n11ResultBlock { return r.Result }

type n11Product struct {
	ID             string         `xml:"id" json:"id"`
	Title          string         `xml:"title" json:"title"`
	SellerCode     string         `xml:"productSellerCode" json:"productSellerCode"`
	Barcode        string         `xml:"barcode" json:"barcode"`
	DisplayPrice   string         `xml:"displayPrice" json:"displayPrice"`
	ApprovalStatus string         `xml:"approvalStatus" json:"approvalStatus"`
	StockItems     []n11StockItem `xml:"stockItems>stockItem" json:"stockItems"`
}

type n11StockItem struct {
	Quantity   int64  `xml:"quantity" json:"quantity"`
	SellerCode string `xml:"sellerStockCode" json:"sellerStockCode"`
}

type n11QuestionListRequest struct {
	Auth   n11AuthBlock `xml:"auth"`
	Paging n11Paging    `xml:"pagingData"`
}

type n11QuestionListResponse struct {
	Result    n11ResultBlock  `xml:"result"`
	Questions []n11Question   `xml:"productQuestions>productQuestion"`
	Paging    n11PagingResult `xml:"pagingData"`
}

func (r *n11QuestionListResponse) ResultOf() n11ResultBlock { return r.Result }

type n11Question struct {
	ID                string `xml:"id" json:"id"`
	QuestionText      string `xml:"question" json:"question"`
	Status            string `xml:"status" json:"status"`
	BuyerName         string `xml:"buyer" json:"buyer"`
	ProductSellerCode string `xml:"productSellerCode" json:"productSellerCode"`
	QuestionDate      string `xml:"questionDate" json:"questionDate"`
}
