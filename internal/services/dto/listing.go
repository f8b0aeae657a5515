package dto

// ListingQuery - фильтры списков заведений и жилья
type ListingQuery struct {
	OwnerID  *uint  `form:"owner_id"`
	Verified *bool  `form:"verified"`
	Search   string `form:"q" validate:"omitempty,max=100"`
}

// --- Eatery ---

type CreateEateryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=160"`
	Location    string `json:"location" validate:"required,max=255"`
	OpenTime    string `json:"open_time" validate:"omitempty,is-clock-time"`
	EndTime     string `json:"end_time" validate:"omitempty,is-clock-time"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Photo       string `json:"photo" validate:"omitempty,max=512"`
}

// UpdateEateryRequest - nil означает "не менять"
type UpdateEateryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=160"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	OpenTime    *string `json:"open_time" validate:"omitempty,is-clock-time"`
	EndTime     *string `json:"end_time" validate:"omitempty,is-clock-time"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Photo       *string `json:"photo" validate:"omitempty,max=512"`
}

// Fields - разрешённые для изменения колонки
func (r *UpdateEateryRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setField(fields, "name", r.Name)
	setField(fields, "location", r.Location)
	setField(fields, "open_time", r.OpenTime)
	setField(fields, "end_time", r.EndTime)
	setField(fields, "description", r.Description)
	setField(fields, "photo", r.Photo)
	return fields
}

// --- Housing ---

type CreateHousingRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=160"`
	Address       string  `json:"address" validate:"required,max=255"`
	RentPrice     float64 `json:"rent_price" validate:"gte=0"`
	RoomCount     int     `json:"room_count" validate:"gte=0"`
	ContactNumber string  `json:"contact_number" validate:"omitempty,max=32"`
	Curfew        string  `json:"curfew" validate:"omitempty,is-clock-time"`
	Description   string  `json:"description" validate:"omitempty,max=5000"`
	Photo         string  `json:"photo" validate:"omitempty,max=512"`
}

type UpdateHousingRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=160"`
	Address       *string  `json:"address" validate:"omitempty,max=255"`
	RentPrice     *float64 `json:"rent_price" validate:"omitempty,gte=0"`
	RoomCount     *int     `json:"room_count" validate:"omitempty,gte=0"`
	ContactNumber *string  `json:"contact_number" validate:"omitempty,max=32"`
	Curfew        *string  `json:"curfew" validate:"omitempty,is-clock-time"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Photo         *string  `json:"photo" validate:"omitempty,max=512"`
}

func (r *UpdateHousingRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setField(fields, "name", r.Name)
	setField(fields, "address", r.Address)
	setField(fields, "rent_price", r.RentPrice)
	setField(fields, "room_count", r.RoomCount)
	setField(fields, "contact_number", r.ContactNumber)
	setField(fields, "curfew", r.Curfew)
	setField(fields, "description", r.Description)
	setField(fields, "photo", r.Photo)
	return fields
}

// --- Food ---

type CreateFoodRequest struct {
	EateryID       uint    `json:"eatery_id" validate:"required"`
	Name           string  `json:"name" validate:"required,min=1,max=160"`
	Classification string  `json:"classification" validate:"omitempty,max=60"`
	Price          float64 `json:"price" validate:"gte=0"`
	Photo          string  `json:"photo" validate:"omitempty,max=512"`
}

type UpdateFoodRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=160"`
	Classification *string  `json:"classification" validate:"omitempty,max=60"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Photo          *string  `json:"photo" validate:"omitempty,max=512"`
}

func (r *UpdateFoodRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setField(fields, "name", r.Name)
	setField(fields, "classification", r.Classification)
	setField(fields, "price", r.Price)
	setField(fields, "photo", r.Photo)
	return fields
}

// --- Facility ---

type CreateFacilityRequest struct {
	HousingID   uint   `json:"housing_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=160"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Photo       string `json:"photo" validate:"omitempty,max=512"`
}

type UpdateFacilityRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=160"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Photo       *string `json:"photo" validate:"omitempty,max=512"`
}

func (r *UpdateFacilityRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setField(fields, "name", r.Name)
	setField(fields, "description", r.Description)
	setField(fields, "photo", r.Photo)
	return fields
}

func setField[T any](fields map[string]interface{}, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}
