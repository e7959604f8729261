package services

import (
	"errors"
	"time"

	"citycare-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func (s *ServiceSuite) TestOTPLogin_SucceedsExactlyOnce() {
	tech := s.seedTechnician("tech@example.com", primitive.NewObjectID())
	code := s.expectOTP(tech.Email)

	s.Require().NoError(s.otp.Send(s.ctx, tech.Email))
	s.Require().Len(*code, 6)

	res, err := s.authn.Login(s.ctx, LoginInput{Email: tech.Email, OTP: *code})
	s.Require().NoError(err)
	s.Equal(models.RoleTechnician, res.Role)
	s.NotEmpty(res.Token)

	_, err = s.authn.Login(s.ctx, LoginInput{Email: tech.Email, OTP: *code})
	s.ErrorIs(err, ErrInvalidOtp)
}

func (s *ServiceSuite) TestOTPLogin_ExpiredCodeFails() {
	c := s.seedCitizen("cit@example.com")
	code := s.expectOTP(c.Email)
	s.Require().NoError(s.otp.Send(s.ctx, c.Email))

	s.advance(5*time.Minute + time.Second)

	_, err := s.authn.Login(s.ctx, LoginInput{Email: c.Email, OTP: *code})
	s.ErrorIs(err, ErrInvalidOtp)
}

func (s *ServiceSuite) TestOTPLogin_SupersededCodeFails() {
	c := s.seedCitizen("cit@example.com")

	var first, second string
	for attempt := 0; attempt < 5 && first == second; attempt++ {
		firstCode := s.expectOTP(c.Email)
		s.Require().NoError(s.otp.Send(s.ctx, c.Email))
		secondCode := s.expectOTP(c.Email)
		s.Require().NoError(s.otp.Send(s.ctx, c.Email))
		first, second = *firstCode, *secondCode
	}
	s.Require().NotEqual(first, second)

	_, err := s.authn.Login(s.ctx, LoginInput{Email: c.Email, OTP: first})
	s.ErrorIs(err, ErrInvalidOtp)

	res, err := s.authn.Login(s.ctx, LoginInput{Email: c.Email, OTP: second})
	s.Require().NoError(err)
	s.Equal(models.RoleCitizen, res.Role)
}

func (s *ServiceSuite) TestSendOTP_DeliveryFailureKeepsCode() {
	s.notifier.EXPECT().SendOTP(gomock.Any(), "cit@example.com", gomock.Any()).Return(errors.New("smtp down"))

	err := s.otp.Send(s.ctx, "Cit@Example.com ")
	s.ErrorIs(err, ErrNotificationFailed)

	stored, err := s.store.Codes.FindByEmail(s.ctx, "cit@example.com")
	s.Require().NoError(err)
	s.Equal(s.clock.Add(5*time.Minute), stored.ExpiryTime)
}

func (s *ServiceSuite) TestPasswordLogin() {
	s.seedOfficer("off@example.com", primitive.NewObjectID())

	res, err := s.authn.Login(s.ctx, LoginInput{Email: "off@example.com", Password: "officer-pass", Role: "ROLE_HEAD"})
	s.Require().NoError(err)
	s.Equal(models.RoleOfficer, res.Role)

	claims, err := s.jwt.ValidateToken(res.Token)
	s.Require().NoError(err)
	s.Equal("off@example.com", claims.Email)
	s.Equal(string(models.RoleOfficer), claims.Role)

	_, err = s.authn.Login(s.ctx, LoginInput{Email: "off@example.com", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredential)
}

func (s *ServiceSuite) TestLogin_Errors() {
	_, err := s.authn.Login(s.ctx, LoginInput{Email: "x@example.com"})
	s.ErrorIs(err, ErrMissingCredential)

	_, err = s.authn.Login(s.ctx, LoginInput{Email: "nobody@example.com", Password: "pw"})
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *ServiceSuite) TestLogin_OTPTakesPrecedenceOverPassword() {
	c := s.seedCitizen("cit@example.com")
	code := s.expectOTP(c.Email)
	s.Require().NoError(s.otp.Send(s.ctx, c.Email))

	// the wrong password is never checked because an otp is present
	res, err := s.authn.Login(s.ctx, LoginInput{Email: c.Email, OTP: *code, Password: "wrong"})
	s.Require().NoError(err)
	s.Equal(models.RoleCitizen, res.Role)
}

func (s *ServiceSuite) TestSignup() {
	code := s.expectOTP("new@example.com")
	s.Require().NoError(s.otp.Send(s.ctx, "new@example.com"))

	_, err := s.authn.Signup(s.ctx, SignupInput{Name: "New", Email: "new@example.com", Password: "pw", OTP: "000000x"})
	s.ErrorIs(err, ErrInvalidOtp)

	res, err := s.authn.Signup(s.ctx, SignupInput{Name: "New", Email: "New@example.com", Password: "pw", Phone: "555", OTP: *code})
	s.Require().NoError(err)
	s.Equal(models.RoleCitizen, res.Role)

	c, err := s.store.Citizens.FindByEmail(s.ctx, "new@example.com")
	s.Require().NoError(err)
	s.True(c.IsActive)
	s.NotEqual("pw", c.PasswordHash)

	_, err = s.store.Codes.FindByEmail(s.ctx, "new@example.com")
	s.Error(err, "signup consumes the code")
}

func (s *ServiceSuite) TestSignup_ExistingCitizenKeepsCode() {
	s.seedCitizen("cit@example.com")
	code := s.expectOTP("cit@example.com")
	s.Require().NoError(s.otp.Send(s.ctx, "cit@example.com"))

	_, err := s.authn.Signup(s.ctx, SignupInput{Email: "cit@example.com", Password: "pw", OTP: *code})
	s.ErrorIs(err, ErrAccountExists)

	_, err = s.store.Codes.FindByEmail(s.ctx, "cit@example.com")
	s.NoError(err)
}

func (s *ServiceSuite) TestResolve_CitizenWinsPriority() {
	s.seedTechnician("shared@example.com", primitive.NewObjectID())
	c := s.seedCitizen("shared@example.com")
	s.seedHead("shared@example.com")

	token, err := s.jwt.GenerateToken(primitive.NewObjectID(), "shared@example.com", string(models.RoleHead))
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		id, err := s.resolver.Resolve(s.ctx, "Bearer "+token)
		s.Require().NoError(err)
		s.Equal(models.RoleCitizen, id.Role)
		s.Equal(c.ID, id.ID())
	}
}

func (s *ServiceSuite) TestResolve_Failures() {
	_, err := s.resolver.Resolve(s.ctx, "")
	s.ErrorIs(err, ErrUnauthenticated)

	_, err = s.resolver.Resolve(s.ctx, "Bearer garbage")
	s.ErrorIs(err, ErrUnauthenticated)

	token, err := s.jwt.GenerateToken(primitive.NewObjectID(), "ghost@example.com", "")
	s.Require().NoError(err)
	_, err = s.resolver.Resolve(s.ctx, token)
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *ServiceSuite) TestResolverRequireRole() {
	s.seedOfficer("off@example.com", primitive.NewObjectID())
	token, err := s.jwt.GenerateToken(primitive.NewObjectID(), "off@example.com", "")
	s.Require().NoError(err)

	id, err := s.resolver.RequireRole(s.ctx, token, models.RoleOfficer)
	s.Require().NoError(err)
	s.Equal(models.RoleOfficer, id.Role)

	_, err = s.resolver.RequireRole(s.ctx, token, models.RoleHead)
	s.ErrorIs(err, ErrUnauthorized)
}
