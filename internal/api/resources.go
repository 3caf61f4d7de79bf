package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
)

// Slice keys, one per domain.
const (
	KeyTourism     store.Key = "tourism"
	KeyMarketplace store.Key = "marketplace"
	KeyCourses     store.Key = "skills.courses"
	KeyEnrollment  store.Key = "skills.enrollment"
	KeyCommunity   store.Key = "community"
	KeyProfile     store.Key = "auth.profile"
	KeySession     store.Key = "auth.session"
	KeyRegister    store.Key = "auth.register"
)

// RegisterSlices creates every slice the client uses, all idle.
func RegisterSlices(st *store.Store) {
	store.Register[TourismData](st, KeyTourism)
	store.Register[Marketplace](st, KeyMarketplace)
	store.Register[[]Course](st, KeyCourses)
	store.Register[Enrollment](st, KeyEnrollment)
	store.Register[CommunityData](st, KeyCommunity)
	store.Register[Profile](st, KeyProfile)
	store.Register[Session](st, KeySession)
	store.Register[RegisterResult](st, KeyRegister)
}

func TourismResource() dispatch.Resource {
	return dispatch.Resource{
		Key:    KeyTourism,
		Method: http.MethodGet,
		Path:   "/tourism",
		Decode: DecodeJSON[TourismData](),
	}
}

// MarketplaceResource reads the catalog, then the cart through f, into one
// Marketplace payload.
func MarketplaceResource(f dispatch.Fetcher) dispatch.Resource {
	return dispatch.Resource{
		Key:    KeyMarketplace,
		Method: http.MethodGet,
		Path:   "/products",
		Decode: func(body []byte) (any, error) {
			products, err := DecodeJSON[[]Product]()(body)
			if err != nil {
				return nil, err
			}
			return Marketplace{Products: products.([]Product)}, nil
		},
		Then: func(ctx context.Context, payload any) (any, error) {
			m := payload.(Marketplace)
			cart, err := f.Fetch(ctx, dispatch.Resource{
				Key:    KeyMarketplace,
				Method: http.MethodGet,
				Path:   "/cart",
				Decode: DecodeJSON[[]CartItem](),
			})
			if err != nil {
				return nil, err
			}
			m.Cart = cart.([]CartItem)
			return m, nil
		},
	}
}

func CoursesResource() dispatch.Resource {
	return dispatch.Resource{
		Key:    KeyCourses,
		Method: http.MethodGet,
		Path:   "/courses",
		Decode: DecodeJSON[[]Course](),
	}
}

func EnrollResource(courseID int) dispatch.Resource {
	return dispatch.Resource{
		Key:           KeyEnrollment,
		Method:        http.MethodPost,
		Path:          fmt.Sprintf("/courses/%d/register", courseID),
		Body:          map[string]int{"courseId": courseID},
		Authenticated: true,
		Decode: func(body []byte) (any, error) {
			v, err := DecodeJSON[Enrollment]()(body)
			if err != nil {
				return nil, err
			}
			e := v.(Enrollment)
			if e.CourseID == 0 {
				e.CourseID = courseID
			}
			return e, nil
		},
	}
}

func CommunityResource() dispatch.Resource {
	return dispatch.Resource{
		Key:    KeyCommunity,
		Method: http.MethodGet,
		Path:   "/community",
		Decode: DecodeJSON[CommunityData](),
	}
}

func ProfileResource() dispatch.Resource {
	return dispatch.Resource{
		Key:           KeyProfile,
		Method:        http.MethodGet,
		Path:          "/profile",
		Authenticated: true,
		Decode:        DecodeJSON[Profile](),
	}
}

func LoginResource(req LoginRequest) dispatch.Resource {
	return dispatch.Resource{
		Key:    KeySession,
		Method: http.MethodPost,
		Path:   "/login",
		Body:   req,
		Decode: func(body []byte) (any, error) {
			v, err := DecodeJSON[Session]()(body)
			if err != nil {
				return nil, err
			}
			s := v.(Session)
			if s.Token == "" {
				return nil, store.E(store.KindDecode, "Login response carried no token")
			}
			if s.Email == "" {
				s.Email = req.Email
			}
			return s, nil
		},
	}
}

func RegisterResource(req RegisterRequest) dispatch.Resource {
	return dispatch.Resource{
		Key:    KeyRegister,
		Method: http.MethodPost,
		Path:   "/register",
		Body:   req,
		Decode: DecodeJSON[RegisterResult](),
	}
}
