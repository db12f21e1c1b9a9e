package format

const (
	// PackageMagic opens every package file and every compressed chunk.
	PackageMagic uint32 = 0x9E2A83C1

	// VerTeraClassic is the baseline file version. Summary fields introduced after
	// it are present only when the file version is greater.
	VerTeraClassic uint16 = 610
	// VerTeraModern is the 64-bit client file version.
	VerTeraModern uint16 = 897
	// VerUDK is a development engine version accepted only on request.
	VerUDK uint16 = 868

	// LegacyNamesLicensee is the licensee version that, paired with VerTeraClassic,
	// stores the name table count as count+offset.
	LegacyNamesLicensee uint16 = 14

	// IndexNone marks an unset offset or size.
	IndexNone int32 = -1
)

// SupportedVersions lists the file versions accepted by default.
var SupportedVersions = []uint16{VerTeraClassic, VerTeraModern}

// PackVersion combines file and licensee versions into the on-disk word.
func PackVersion(fileVersion, licenseeVersion uint16) uint32 {
	return uint32(fileVersion) | uint32(licenseeVersion)<<16
}

// UnpackVersion splits the on-disk version word.
func UnpackVersion(v uint32) (fileVersion, licenseeVersion uint16) {
	return uint16(v & 0xFFFF), uint16(v >> 16)
}

// IsLegacyNamesEncoding reports whether the version pair stores NamesCount+NamesOffset
// in the name count field.
func IsLegacyNamesEncoding(fileVersion, licenseeVersion uint16) bool {
	return fileVersion == VerTeraClassic && licenseeVersion == LegacyNamesLicensee
}

type (
	PackageFlags uint32
	ExportFlags  uint32
	ObjectFlags  uint64
	PixelFormat  uint32
)

const (
	PkgAllowDownload               PackageFlags = 0x00000001
	PkgClientOptional              PackageFlags = 0x00000002
	PkgServerSideOnly              PackageFlags = 0x00000004
	PkgCooked                      PackageFlags = 0x00000008
	PkgUnsecure                    PackageFlags = 0x00000010
	PkgSavedWithNewerVersion       PackageFlags = 0x00000020
	PkgNeed                        PackageFlags = 0x00008000
	PkgCompiling                   PackageFlags = 0x00010000
	PkgContainsMap                 PackageFlags = 0x00020000
	PkgTrash                       PackageFlags = 0x00040000
	PkgDisallowLazyLoading         PackageFlags = 0x00080000
	PkgPlayInEditor                PackageFlags = 0x00100000
	PkgContainsScript              PackageFlags = 0x00200000
	PkgContainsDebugInfo           PackageFlags = 0x00400000
	PkgRequireImportsAlreadyLoaded PackageFlags = 0x00800000
	PkgSelfContainedLighting       PackageFlags = 0x01000000
	PkgStoreCompressed             PackageFlags = 0x02000000
	PkgStoreFullyCompressed        PackageFlags = 0x04000000
	PkgContainsInlinedShaders      PackageFlags = 0x08000000
	PkgContainsFaceFXData          PackageFlags = 0x10000000
	PkgNoExportAllowed             PackageFlags = 0x20000000
	PkgStrippedSource              PackageFlags = 0x40000000
)

const (
	ExportForced                  ExportFlags = 0x1
	ExportScriptPatcher           ExportFlags = 0x2
	ExportMemberFieldPatchPending ExportFlags = 0x4
)

const (
	ObjInSingularFunc         ObjectFlags = 0x0000000000000002
	ObjStateChanged           ObjectFlags = 0x0000000000000004
	ObjDebugPostLoad          ObjectFlags = 0x0000000000000008
	ObjDebugSerialize         ObjectFlags = 0x0000000000000010
	ObjDebugFinishDestroyed   ObjectFlags = 0x0000000000000020
	ObjEdSelected             ObjectFlags = 0x0000000000000040
	ObjZombieComponent        ObjectFlags = 0x0000000000000080
	ObjProtected              ObjectFlags = 0x0000000000000100
	ObjClassDefaultObject     ObjectFlags = 0x0000000000000200
	ObjArchetypeObject        ObjectFlags = 0x0000000000000400
	ObjForceTagExp            ObjectFlags = 0x0000000000000800
	ObjTokenStreamAssembled   ObjectFlags = 0x0000000000001000
	ObjMisalignedObject       ObjectFlags = 0x0000000000002000
	ObjRootSet                ObjectFlags = 0x0000000000004000
	ObjBeginDestroyed         ObjectFlags = 0x0000000000008000
	ObjFinishDestroyed        ObjectFlags = 0x0000000000010000
	ObjDebugBeginDestroyed    ObjectFlags = 0x0000000000020000
	ObjMarkedByCooker         ObjectFlags = 0x0000000000040000
	ObjLocalizedResource      ObjectFlags = 0x0000000000080000
	ObjInitializedProps       ObjectFlags = 0x0000000000100000
	ObjPendingFieldPatches    ObjectFlags = 0x0000000000200000
	ObjIsCrossLevelReferenced ObjectFlags = 0x0000000000400000
	ObjSaved                  ObjectFlags = 0x0000000080000000
	ObjTransactional          ObjectFlags = 0x0000000100000000
	ObjUnreachable            ObjectFlags = 0x0000000200000000
	ObjPublic                 ObjectFlags = 0x0000000400000000
	ObjTagImp                 ObjectFlags = 0x0000000800000000
	ObjTagExp                 ObjectFlags = 0x0000001000000000
	ObjObsolete               ObjectFlags = 0x0000002000000000
	ObjTagGarbage             ObjectFlags = 0x0000004000000000
	ObjDisregardForGC         ObjectFlags = 0x0000008000000000
	ObjPerObjectLocalized     ObjectFlags = 0x0000010000000000
	ObjNeedLoad               ObjectFlags = 0x0000020000000000
	ObjAsyncLoading           ObjectFlags = 0x0000040000000000
	ObjNeedPostLoadSubobjects ObjectFlags = 0x0000080000000000
	ObjSuppress               ObjectFlags = 0x0000100000000000
	ObjInEndState             ObjectFlags = 0x0000200000000000
	ObjTransient              ObjectFlags = 0x0000400000000000
	ObjCooked                 ObjectFlags = 0x0000800000000000
	ObjLoadForClient          ObjectFlags = 0x0001000000000000
	ObjLoadForServer          ObjectFlags = 0x0002000000000000
	ObjLoadForEdit            ObjectFlags = 0x0004000000000000
	ObjStandalone             ObjectFlags = 0x0008000000000000
	ObjNotForClient           ObjectFlags = 0x0010000000000000
	ObjNotForServer           ObjectFlags = 0x0020000000000000
	ObjNotForEdit             ObjectFlags = 0x0040000000000000
	ObjNeedPostLoad           ObjectFlags = 0x0100000000000000
	ObjHasStack               ObjectFlags = 0x0200000000000000
	ObjNative                 ObjectFlags = 0x0400000000000000
	ObjMarked                 ObjectFlags = 0x0800000000000000
	ObjErrorShutdown          ObjectFlags = 0x1000000000000000
	ObjPendingKill            ObjectFlags = 0x2000000000000000
)

const (
	PixelUnknown             PixelFormat = 0
	PixelA32B32G32R32F       PixelFormat = 1
	PixelA8R8G8B8            PixelFormat = 2
	PixelG8                  PixelFormat = 3
	PixelG16                 PixelFormat = 4
	PixelDXT1                PixelFormat = 5
	PixelDXT3                PixelFormat = 6
	PixelDXT5                PixelFormat = 7
	PixelUYVY                PixelFormat = 8
	PixelFloatRGB            PixelFormat = 9
	PixelFloatRGBA           PixelFormat = 10
	PixelDepthStencil        PixelFormat = 11
	PixelShadowDepth         PixelFormat = 12
	PixelFilteredShadowDepth PixelFormat = 13
	PixelR32F                PixelFormat = 14
	PixelG16R16              PixelFormat = 15
	PixelG16R16F             PixelFormat = 16
	PixelG16R16FFilter       PixelFormat = 17
	PixelG32R32F             PixelFormat = 18
	PixelA2B10G10R10         PixelFormat = 19
	PixelA16B16G16R16        PixelFormat = 20
	PixelD24                 PixelFormat = 21
	PixelR16F                PixelFormat = 22
	PixelR16FFilter          PixelFormat = 23
	PixelBC5                 PixelFormat = 24
	PixelV8U8                PixelFormat = 25
	PixelA1                  PixelFormat = 26
	PixelFloatR11G11B10      PixelFormat = 27
)
